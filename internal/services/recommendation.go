package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/types"
)

// Split modes a user can prefer.
const (
	SplitModePPL        = "ppl"
	SplitModeUpperLower = "upper_lower"
	SplitModeFullBody   = "full_body"
	SplitModeCustom     = "custom"
)

var splitCycles = map[string][]string{
	SplitModePPL:        {types.SplitPush, types.SplitPull, types.SplitLegs},
	SplitModeUpperLower: {types.SplitUpper, types.SplitLower},
	SplitModeFullBody:   {types.SplitFullBody},
}

var splitMuscles = map[string][]string{
	types.SplitPush:     {MuscleChest, MuscleShoulders, MuscleTriceps},
	types.SplitPull:     {MuscleBack, MuscleBiceps},
	types.SplitLegs:     {MuscleLegs, MuscleGlutes},
	types.SplitUpper:    {MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps},
	types.SplitLower:    {MuscleLegs, MuscleGlutes, MuscleCore},
	types.SplitFullBody: {MuscleChest, MuscleBack, MuscleShoulders, MuscleLegs, MuscleGlutes, MuscleCore},
}

// Splits that usually run long; short-session users get biased away.
var longSplits = map[string]bool{
	types.SplitLegs:     true,
	types.SplitFullBody: true,
}

const (
	baseScore          = 100
	onCycleBonus       = 18
	timeBiasPoints     = 6
	repetitionPenalty  = 6
	avoidPenaltyPerHit = 18
	freshBonus         = 8
	splitHistoryWindow = 3
)

type SplitRecommendation struct {
	Split   string   `json:"split"`
	Score   int      `json:"score"`
	Tags    []string `json:"tags"`
	Reasons []string `json:"reasons"`
}

type NextSplitResult struct {
	Top        SplitRecommendation   `json:"top"`
	Alternates []SplitRecommendation `json:"alternates"`
}

type RecommendationService interface {
	GetNextSplit(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*NextSplitResult, error)
}

type recommendationService struct {
	db             *gorm.DB
	log            *logger.Logger
	sessionRepo    repos.WorkoutSessionRepo
	fatigueService FatigueService
}

func NewRecommendationService(db *gorm.DB, log *logger.Logger, sessionRepo repos.WorkoutSessionRepo, fatigueService FatigueService) RecommendationService {
	return &recommendationService{
		db:             db,
		log:            log.With("service", "RecommendationService"),
		sessionRepo:    sessionRepo,
		fatigueService: fatigueService,
	}
}

func (rs *recommendationService) GetNextSplit(ctx context.Context, tx *gorm.DB, user *types.User, now time.Time) (*NextSplitResult, error) {
	if user == nil {
		return nil, fmt.Errorf("user required")
	}

	recent, err := rs.sessionRepo.GetRecentFinished(ctx, tx, user.ID, splitHistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("fetching split history: %w", err)
	}
	history := make([]string, 0, len(recent))
	for _, s := range recent {
		if s.SplitType != "" {
			history = append(history, s.SplitType)
		}
	}

	fatigue, err := rs.fatigueService.GetMuscleFatigue(ctx, tx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("fetching fatigue: %w", err)
	}

	avoided := parseAvoidedMuscles(user)
	result := RecommendNextSplit(user.PreferredSplit, history, fatigue, avoided, user.PrefersShortSessions)
	return result, nil
}

func parseAvoidedMuscles(user *types.User) []string {
	if len(user.AvoidedMuscles) == 0 {
		return nil
	}
	var raw []string
	if err := json.Unmarshal(user.AvoidedMuscles, &raw); err != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		out = append(out, CanonicalMuscle(m))
	}
	return out
}

// RecommendNextSplit is the pure scoring core. Candidate construction order
// is the deterministic tie-break.
func RecommendNextSplit(mode string, history []string, fatigue map[string]*MuscleGroupFatigue, avoided []string, prefersShort bool) *NextSplitResult {
	candidates := buildCandidates(mode, history, fatigue)
	onCycle := ""
	if len(candidates) > 0 {
		onCycle = candidates[0]
	}

	scored := make([]SplitRecommendation, 0, len(candidates))
	for _, split := range candidates {
		scored = append(scored, scoreCandidate(split, split == onCycle, history, fatigue, avoided, prefersShort))
	}

	// Stable selection sort keeps construction order on ties.
	ordered := make([]SplitRecommendation, 0, len(scored))
	used := make([]bool, len(scored))
	for range scored {
		bestIdx := -1
		for i := range scored {
			if used[i] {
				continue
			}
			if bestIdx == -1 || scored[i].Score > scored[bestIdx].Score {
				bestIdx = i
			}
		}
		used[bestIdx] = true
		ordered = append(ordered, scored[bestIdx])
	}

	result := &NextSplitResult{Top: ordered[0]}
	if len(ordered) > 1 {
		limit := len(ordered)
		if limit > 3 {
			limit = 3
		}
		result.Alternates = ordered[1:limit]
	}
	return result
}

// buildCandidates yields next-in-cycle first, then previous-in-cycle, then a
// change-of-pace filler. Custom mode derives candidates from which of
// legs/upper are currently fatigued.
func buildCandidates(mode string, history []string, fatigue map[string]*MuscleGroupFatigue) []string {
	cycle, ok := splitCycles[mode]
	if !ok || mode == SplitModeCustom {
		return customCandidates(fatigue)
	}

	lastIdx := -1
	for _, past := range history {
		for i, split := range cycle {
			if past == split {
				lastIdx = i
				break
			}
		}
		if lastIdx >= 0 {
			break
		}
	}

	next := cycle[(lastIdx+1)%len(cycle)]
	prev := cycle[(lastIdx-1+2*len(cycle))%len(cycle)]

	candidates := []string{next}
	if prev != next {
		candidates = append(candidates, prev)
	}
	for _, filler := range []string{types.SplitFullBody, types.SplitUpper, types.SplitLower} {
		if len(candidates) >= 3 {
			break
		}
		seen := false
		for _, c := range candidates {
			if c == filler {
				seen = true
				break
			}
		}
		if !seen {
			candidates = append(candidates, filler)
		}
	}
	return candidates
}

func customCandidates(fatigue map[string]*MuscleGroupFatigue) []string {
	legsFatigued := avgFatigue(fatigue, splitMuscles[types.SplitLegs]) >= 110
	upperFatigued := avgFatigue(fatigue, splitMuscles[types.SplitUpper]) >= 110

	switch {
	case legsFatigued && !upperFatigued:
		return []string{types.SplitUpper, types.SplitPush, types.SplitPull}
	case upperFatigued && !legsFatigued:
		return []string{types.SplitLegs, types.SplitLower, types.SplitFullBody}
	default:
		return []string{types.SplitFullBody, types.SplitUpper, types.SplitLegs}
	}
}

func avgFatigue(fatigue map[string]*MuscleGroupFatigue, muscles []string) float64 {
	sum, n := 0.0, 0
	for _, m := range muscles {
		if f, ok := fatigue[m]; ok && f != nil {
			sum += float64(f.FatigueScore)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func scoreCandidate(split string, onCycle bool, history []string, fatigue map[string]*MuscleGroupFatigue, avoided []string, prefersShort bool) SplitRecommendation {
	score := baseScore
	var tags, reasons []string

	if onCycle {
		score += onCycleBonus
		tags = append(tags, "on_cycle")
		reasons = append(reasons, "Next up in your split rotation")
	}

	if prefersShort {
		if longSplits[split] {
			score -= timeBiasPoints
		} else {
			score += timeBiasPoints
			tags = append(tags, "quick_session")
			reasons = append(reasons, "Fits a shorter session")
		}
	}

	repeats := 0
	for _, past := range history {
		if past == split {
			repeats++
		}
	}
	if repeats > 0 {
		score -= repetitionPenalty * repeats
		reasons = append(reasons, fmt.Sprintf("Trained %d of your last %d workouts", repeats, splitHistoryWindow))
	}

	overlap := 0
	for _, muscle := range splitMuscles[split] {
		for _, a := range avoided {
			if muscle == a {
				overlap++
			}
		}
	}
	if overlap > 0 {
		score -= avoidPenaltyPerHit * overlap
		tags = append(tags, "avoided_muscles")
		reasons = append(reasons, "Hits muscles you asked to avoid")
	}

	avg := avgFatigue(fatigue, splitMuscles[split])
	switch {
	case avg >= 140:
		score -= 26
		tags = append(tags, "high_fatigue")
		reasons = append(reasons, "These muscles are heavily loaded right now")
	case avg >= 125:
		score -= 16
		tags = append(tags, "fatigued")
		reasons = append(reasons, "These muscles are still carrying fatigue")
	case avg >= 110:
		score -= 8
		reasons = append(reasons, "Slightly above your usual training load")
	case avg > 0 && avg <= 80:
		score += freshBonus
		tags = append(tags, "fresh")
		reasons = append(reasons, "These muscles are fresh and ready")
	}

	return SplitRecommendation{Split: split, Score: score, Tags: tags, Reasons: reasons}
}
