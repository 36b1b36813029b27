package services

import "strings"

// Canonical muscle groups. Every free-text label an exercise or client sends
// collapses into one of these.
const (
	MuscleChest     = "chest"
	MuscleBack      = "back"
	MuscleShoulders = "shoulders"
	MuscleBiceps    = "biceps"
	MuscleTriceps   = "triceps"
	MuscleLegs      = "legs"
	MuscleGlutes    = "glutes"
	MuscleCore      = "core"
	MuscleOther     = "other"
)

var canonicalMuscles = []string{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleLegs, MuscleGlutes, MuscleCore, MuscleOther,
}

// Exact alias table, checked before any substring matching.
var muscleAliases = map[string]string{
	"chest":       MuscleChest,
	"pecs":        MuscleChest,
	"pectorals":   MuscleChest,
	"back":        MuscleBack,
	"upper back":  MuscleBack,
	"lower back":  MuscleBack,
	"mid back":    MuscleBack,
	"lats":        MuscleBack,
	"latissimus":  MuscleBack,
	"traps":       MuscleBack,
	"trapezius":   MuscleBack,
	"rhomboids":   MuscleBack,
	"shoulders":   MuscleShoulders,
	"shoulder":    MuscleShoulders,
	"delts":       MuscleShoulders,
	"deltoids":    MuscleShoulders,
	"rear delts":  MuscleShoulders,
	"side delts":  MuscleShoulders,
	"biceps":      MuscleBiceps,
	"bicep":       MuscleBiceps,
	"forearms":    MuscleBiceps,
	"triceps":     MuscleTriceps,
	"tricep":      MuscleTriceps,
	"legs":        MuscleLegs,
	"quads":       MuscleLegs,
	"quadriceps":  MuscleLegs,
	"hamstrings":  MuscleLegs,
	"hams":        MuscleLegs,
	"calves":      MuscleLegs,
	"adductors":   MuscleLegs,
	"abductors":   MuscleLegs,
	"glutes":      MuscleGlutes,
	"glute":       MuscleGlutes,
	"gluteus":     MuscleGlutes,
	"hips":        MuscleGlutes,
	"core":        MuscleCore,
	"abs":         MuscleCore,
	"abdominals":  MuscleCore,
	"obliques":    MuscleCore,
	"lower abs":   MuscleCore,
	"other":       MuscleOther,
	"full body":   MuscleOther,
	"cardio":      MuscleOther,
}

// Substring fallback, checked in this fixed order so matching stays
// deterministic when a label contains several muscle words.
var muscleSubstringFallback = []struct {
	substr string
	group  string
}{
	{"chest", MuscleChest},
	{"pec", MuscleChest},
	{"lat", MuscleBack},
	{"back", MuscleBack},
	{"trap", MuscleBack},
	{"delt", MuscleShoulders},
	{"shoulder", MuscleShoulders},
	{"bicep", MuscleBiceps},
	{"forearm", MuscleBiceps},
	{"tricep", MuscleTriceps},
	{"quad", MuscleLegs},
	{"hamstring", MuscleLegs},
	{"calf", MuscleLegs},
	{"calves", MuscleLegs},
	{"leg", MuscleLegs},
	{"glute", MuscleGlutes},
	{"hip", MuscleGlutes},
	{"ab", MuscleCore},
	{"core", MuscleCore},
	{"oblique", MuscleCore},
}

// CanonicalMuscle normalizes a free-text muscle label into the fixed
// taxonomy. Unknown labels map to "other".
func CanonicalMuscle(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return MuscleOther
	}
	if g, ok := muscleAliases[key]; ok {
		return g
	}
	for _, f := range muscleSubstringFallback {
		if strings.Contains(key, f.substr) {
			return f.group
		}
	}
	return MuscleOther
}
