package insighting

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/pkg/clock"
	"github.com/vfg2006/campaign-hub-api/pkg/utils"
)

// Estrutura que acumula totais, canais e dias de um escopo (global ou campanha)
type accumulator struct {
	totals    domain.Counters
	byChannel map[domain.Channel]*domain.Counters
	byDay     map[string]*domain.Counters
}

func newAccumulator() *accumulator {
	return &accumulator{
		byChannel: make(map[domain.Channel]*domain.Counters),
		byDay:     make(map[string]*domain.Counters),
	}
}

func (a *accumulator) registerChannels(channels []domain.Channel) {
	for _, ch := range channels {
		if _, ok := a.byChannel[ch]; !ok {
			a.byChannel[ch] = &domain.Counters{}
		}
	}
}

// add applies one metrics delta. Engagement is split evenly across channels so
// that the channel breakdown sums back to the totals; conversions only feed the totals.
func (a *accumulator) add(delta domain.MetricsDelta, channels []domain.Channel, day string) {
	engagement := delta.Likes + delta.Shares

	a.totals.Add(domain.Counters{
		Impressions: delta.Impressions,
		Clicks:      delta.Clicks,
		Engagement:  engagement,
		Conversions: delta.Conversions,
	})

	impressions := utils.SplitEvenly(delta.Impressions, len(channels))
	clicks := utils.SplitEvenly(delta.Clicks, len(channels))
	engaged := utils.SplitEvenly(engagement, len(channels))
	for i, ch := range channels {
		counters, ok := a.byChannel[ch]
		if !ok {
			counters = &domain.Counters{}
			a.byChannel[ch] = counters
		}
		counters.Add(domain.Counters{Impressions: impressions[i], Clicks: clicks[i], Engagement: engaged[i]})
	}

	counters, ok := a.byDay[day]
	if !ok {
		counters = &domain.Counters{}
		a.byDay[day] = counters
	}
	counters.Add(domain.Counters{Impressions: delta.Impressions, Clicks: delta.Clicks, Engagement: engagement})
}

func (a *accumulator) snapshot() (domain.Overview, []domain.PlatformMetrics, []domain.TimelinePoint) {
	platforms := make([]domain.PlatformMetrics, 0, len(a.byChannel))
	for ch, c := range a.byChannel {
		platforms = append(platforms, domain.PlatformMetrics{
			Platform:    ch,
			Impressions: c.Impressions,
			Clicks:      c.Clicks,
			Engagement:  c.Engagement,
		})
	}
	sort.Slice(platforms, func(i, j int) bool {
		if platforms[i].Impressions != platforms[j].Impressions {
			return platforms[i].Impressions > platforms[j].Impressions
		}
		return platforms[i].Platform < platforms[j].Platform
	})

	timeline := make([]domain.TimelinePoint, 0, len(a.byDay))
	for day, c := range a.byDay {
		timeline = append(timeline, domain.TimelinePoint{
			Date:        day,
			Impressions: c.Impressions,
			Clicks:      c.Clicks,
			Engagement:  c.Engagement,
		})
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Date < timeline[j].Date })

	return domain.NewOverview(a.totals), platforms, timeline
}

// Aggregator keeps incremental analytics for the global scope and for every
// campaign. It is fed by store change events, in commit order.
type Aggregator struct {
	mu        sync.RWMutex
	clock     clock.Clock
	global    *accumulator
	campaigns map[string]*accumulator
	applied   uint64
}

func NewAggregator(clk clock.Clock) *Aggregator {
	if clk == nil {
		clk = clock.System{}
	}
	return &Aggregator{
		clock:     clk,
		global:    newAccumulator(),
		campaigns: make(map[string]*accumulator),
	}
}

// Apply implements store.ChangeListener.
func (a *Aggregator) Apply(event domain.ChangeEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.applied = event.Sequence

	switch event.EntityType {
	case domain.EntityCampaign:
		a.applyCampaign(event)
	case domain.EntityContent:
		a.applyContent(event)
	}
}

func (a *Aggregator) applyCampaign(event domain.ChangeEvent) {
	switch event.Kind {
	case domain.ChangeCreated:
		if _, ok := a.campaigns[event.EntityID]; !ok {
			a.campaigns[event.EntityID] = newAccumulator()
		}
	case domain.ChangeDeleted:
		delete(a.campaigns, event.EntityID)
	}
}

func (a *Aggregator) applyContent(event domain.ChangeEvent) {
	if event.Kind != domain.ChangeUpdated {
		return
	}

	before, after := event.ContentStates()
	if before == nil || after == nil {
		logrus.WithFields(logrus.Fields{
			"sequence":  event.Sequence,
			"contentId": event.EntityID,
		}).Error("content update event without before/after state, skipping")
		return
	}

	if after.Status != domain.ContentStatusPublished {
		return
	}

	scopes := []*accumulator{a.global}
	if after.CampaignID != nil {
		scopes = append(scopes, a.campaignScope(*after.CampaignID))
	}

	if before.Status != domain.ContentStatusPublished {
		for _, scope := range scopes {
			scope.registerChannels(after.Channels)
		}
	}

	delta := after.Metrics.Sub(before.Metrics)
	if delta.IsZero() {
		return
	}
	if delta.HasNegative() || len(after.Channels) == 0 {
		logrus.WithFields(logrus.Fields{
			"sequence":  event.Sequence,
			"contentId": event.EntityID,
		}).Error("invalid metrics delta, skipping")
		return
	}

	day := domain.DateKey(event.OccurredAt)
	if before.Metrics.IsZero() && after.PublishedAt != nil {
		day = domain.DateKey(*after.PublishedAt)
	}

	channels := domain.NormalizeChannels(after.Channels)
	for _, scope := range scopes {
		scope.add(delta, channels, day)
	}
}

func (a *Aggregator) campaignScope(campaignID string) *accumulator {
	scope, ok := a.campaigns[campaignID]
	if !ok {
		scope = newAccumulator()
		a.campaigns[campaignID] = scope
	}
	return scope
}

// Snapshot reads the accumulators of a campaign, or the global scope when
// campaignID is empty.
func (a *Aggregator) Snapshot(campaignID string) (*domain.AnalyticsSnapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	scope, err := a.scopeLocked(campaignID)
	if err != nil {
		return nil, err
	}

	overview, platforms, timeline := scope.snapshot()
	return &domain.AnalyticsSnapshot{
		CampaignID:  campaignID,
		Overview:    overview,
		ByPlatform:  platforms,
		Timeline:    timeline,
		GeneratedAt: a.clock.Now(),
	}, nil
}

// Overview returns the current overview of a campaign scope.
func (a *Aggregator) Overview(campaignID string) (domain.Overview, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	scope, err := a.scopeLocked(campaignID)
	if err != nil {
		return domain.Overview{}, false
	}
	return domain.NewOverview(scope.totals), true
}

// AppliedSequence is the sequence number of the last event applied.
func (a *Aggregator) AppliedSequence() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.applied
}

// CheckReconciliation verifies that totals, the channel breakdown and the
// timeline of a scope agree with each other.
func (a *Aggregator) CheckReconciliation(campaignID string) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	scope, err := a.scopeLocked(campaignID)
	if err != nil {
		return err
	}

	var byChannel, byDay domain.Counters
	for _, c := range scope.byChannel {
		byChannel.Add(*c)
	}
	for _, c := range scope.byDay {
		byDay.Add(*c)
	}

	totals := scope.totals
	totals.Conversions = 0
	if byChannel != totals {
		return fmt.Errorf("scope %q: channel breakdown %+v does not match totals %+v", campaignID, byChannel, totals)
	}
	if byDay != totals {
		return fmt.Errorf("scope %q: timeline %+v does not match totals %+v", campaignID, byDay, totals)
	}
	return nil
}

func (a *Aggregator) scopeLocked(campaignID string) (*accumulator, error) {
	if campaignID == "" {
		return a.global, nil
	}
	scope, ok := a.campaigns[campaignID]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityCampaign, campaignID)
	}
	return scope, nil
}
