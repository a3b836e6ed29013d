package telemetry

import (
	"fmt"
	"log/slog"
)

// MilestoneType identifies the type of milestone.
type MilestoneType string

const (
	MilestoneFirstSpread   MilestoneType = "first_spread"
	MilestoneInfectionPeak MilestoneType = "infection_peak"
	MilestoneMassCasualty  MilestoneType = "mass_casualty"
	MilestoneOutbreakOver  MilestoneType = "outbreak_over"
)

// Milestone marks a turning point of the outbreak.
type Milestone struct {
	Type        MilestoneType `csv:"type"`
	Tick        uint64        `csv:"tick"`
	Description string        `csv:"description"`
}

// LogMilestone logs the milestone using slog.
func (m Milestone) LogMilestone() {
	slog.Info("milestone",
		"type", string(m.Type),
		"tick", m.Tick,
		"description", m.Description,
	)
}

// MilestoneConfig holds detection thresholds.
type MilestoneConfig struct {
	HistorySize          int // windows retained to confirm a steady decline
	MassCasualtyFraction float64 // died / population that triggers mass_casualty
	PeakDropFraction     float64 // drop from the running peak that confirms infection_peak
}

// MilestoneDetector detects turning points of the outbreak. Each
// milestone fires at most once per run.
type MilestoneDetector struct {
	cfg MilestoneConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historyIdx  int
	historyFull bool

	peakInfected int
	peakTick     uint64
	fired        map[MilestoneType]bool
}

// NewMilestoneDetector creates a detector.
func NewMilestoneDetector(cfg MilestoneConfig) *MilestoneDetector {
	if cfg.HistorySize < 3 {
		cfg.HistorySize = 3
	}
	if cfg.PeakDropFraction <= 0 {
		cfg.PeakDropFraction = 0.2
	}
	return &MilestoneDetector{
		cfg:     cfg,
		history: make([]WindowStats, cfg.HistorySize),
		fired:   make(map[MilestoneType]bool),
	}
}

// Check analyzes the latest stats and returns any triggered milestones.
func (md *MilestoneDetector) Check(stats WindowStats) []Milestone {
	var milestones []Milestone

	if stats.Infected > md.peakInfected {
		md.peakInfected = stats.Infected
		md.peakTick = stats.WindowEndTick
	}

	for _, check := range []func(WindowStats) *Milestone{
		md.checkFirstSpread,
		md.checkInfectionPeak,
		md.checkMassCasualty,
		md.checkOutbreakOver,
	} {
		if m := check(stats); m != nil && !md.fired[m.Type] {
			md.fired[m.Type] = true
			milestones = append(milestones, *m)
		}
	}

	md.addToHistory(stats)
	return milestones
}

// Fired reports whether the milestone has already triggered.
func (md *MilestoneDetector) Fired(t MilestoneType) bool {
	return md.fired[t]
}

func (md *MilestoneDetector) addToHistory(stats WindowStats) {
	md.history[md.historyIdx] = stats
	md.historyIdx = (md.historyIdx + 1) % len(md.history)
	if md.historyIdx == 0 {
		md.historyFull = true
	}
}

// recent returns the retained windows, oldest first.
func (md *MilestoneDetector) recent() []WindowStats {
	if !md.historyFull {
		return md.history[:md.historyIdx]
	}
	out := make([]WindowStats, 0, len(md.history))
	out = append(out, md.history[md.historyIdx:]...)
	return append(out, md.history[:md.historyIdx]...)
}

// fallingSincePeak reports whether infections never rose across the
// retained windows from the peak onwards, ending with stats. At least one
// retained window must follow or contain the peak.
func (md *MilestoneDetector) fallingSincePeak(stats WindowStats) bool {
	last, seen := 0, false
	for _, w := range md.recent() {
		if w.WindowEndTick < md.peakTick {
			continue
		}
		if seen && w.Infected > last {
			return false
		}
		last, seen = w.Infected, true
	}
	return seen && stats.Infected <= last
}

func (md *MilestoneDetector) checkFirstSpread(stats WindowStats) *Milestone {
	if stats.NewInfections == 0 {
		return nil
	}
	return &Milestone{
		Type:        MilestoneFirstSpread,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First transmission, %d new infections in window", stats.NewInfections),
	}
}

// checkInfectionPeak confirms a peak once infections fell by the drop
// fraction from the running maximum and have not rebounded in any
// retained window since the peak.
func (md *MilestoneDetector) checkInfectionPeak(stats WindowStats) *Milestone {
	if md.peakInfected < 2 {
		return nil
	}
	drop := 1 - float64(stats.Infected)/float64(md.peakInfected)
	if drop < md.cfg.PeakDropFraction {
		return nil
	}

	if !md.fallingSincePeak(stats) {
		return nil
	}

	return &Milestone{
		Type:        MilestoneInfectionPeak,
		Tick:        md.peakTick,
		Description: fmt.Sprintf("Infections peaked at %d, now %d (%.0f%% down)", md.peakInfected, stats.Infected, drop*100),
	}
}

func (md *MilestoneDetector) checkMassCasualty(stats WindowStats) *Milestone {
	if md.cfg.MassCasualtyFraction <= 0 || stats.Population == 0 {
		return nil
	}
	frac := float64(stats.Died) / float64(stats.Population)
	if frac < md.cfg.MassCasualtyFraction {
		return nil
	}
	return &Milestone{
		Type:        MilestoneMassCasualty,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d of %d dead (%.0f%%)", stats.Died, stats.Population, frac*100),
	}
}

func (md *MilestoneDetector) checkOutbreakOver(stats WindowStats) *Milestone {
	if stats.Infected > 0 {
		return nil
	}
	return &Milestone{
		Type:        MilestoneOutbreakOver,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No infections left: %d susceptible, %d removed, %d died (attack rate %.0f%%)", stats.Susceptible, stats.Removed, stats.Died, stats.AttackRate*100),
	}
}
