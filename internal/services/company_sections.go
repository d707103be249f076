package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Indicator kinds accepted by VerifyIndicator.
const (
	IndicatorDistress = "distress"
	IndicatorGrowth   = "growth"
)

const trendMonths = 12

var sectionTimeRanges = map[string]time.Duration{
	"week":    7 * 24 * time.Hour,
	"month":   30 * 24 * time.Hour,
	"quarter": 91 * 24 * time.Hour,
	"year":    365 * 24 * time.Hour,
}

// signal is one verified indicator reduced to what section scoring needs.
// score is on a 0-100 scale, value is the raw severity or growth score.
type signal struct {
	index      int
	companyID  uuid.UUID
	typ        string
	score      float64
	value      float64
	funding    *float64
	detectedAt time.Time
}

func distressSignal(i int, d models.DistressIndicator) signal {
	return signal{
		index:      i,
		companyID:  d.CompanyID,
		typ:        d.IndicatorType,
		score:      float64(d.Severity * d.ImpactScore * 2),
		value:      float64(d.Severity),
		detectedAt: d.DetectedAt,
	}
}

func growthSignal(i int, g models.GrowthIndicator) signal {
	return signal{
		index:      i,
		companyID:  g.CompanyID,
		typ:        g.IndicatorType,
		score:      float64(g.GrowthScore * 10),
		value:      float64(g.GrowthScore),
		funding:    g.FundingAmount,
		detectedAt: g.DetectedAt,
	}
}

// sectionEntry is one company's standing in a section. Signals are newest
// first.
type sectionEntry struct {
	company       models.Company
	signals       []signal
	score         int
	latestFunding *float64
}

func (e *sectionEntry) latest() string {
	if len(e.signals) == 0 {
		return ""
	}
	return e.signals[0].typ
}

// AddDistressIndicator records an unverified distress indicator for a
// company. It counts once a moderator verifies it.
func (s *CompanyService) AddDistressIndicator(companyID, userID uuid.UUID, req *dto.AddDistressIndicatorRequest) (*models.DistressIndicator, error) {
	if _, err := s.Get(companyID); err != nil {
		return nil, err
	}
	indicator := models.DistressIndicator{
		CompanyID:     companyID,
		IndicatorType: req.IndicatorType,
		Severity:      req.Severity,
		ImpactScore:   req.ImpactScore,
		Description:   strings.TrimSpace(req.Description),
		SourceURL:     req.SourceURL,
		CreatedBy:     &userID,
	}
	if err := s.db.Create(&indicator).Error; err != nil {
		return nil, fmt.Errorf("failed to add distress indicator: %w", err)
	}
	return &indicator, nil
}

// AddGrowthIndicator records an unverified growth indicator for a company.
func (s *CompanyService) AddGrowthIndicator(companyID, userID uuid.UUID, req *dto.AddGrowthIndicatorRequest) (*models.GrowthIndicator, error) {
	if _, err := s.Get(companyID); err != nil {
		return nil, err
	}
	indicator := models.GrowthIndicator{
		CompanyID:     companyID,
		IndicatorType: req.IndicatorType,
		GrowthScore:   req.GrowthScore,
		Description:   strings.TrimSpace(req.Description),
		SourceURL:     req.SourceURL,
		FundingAmount: req.FundingAmount,
		Valuation:     req.Valuation,
		CreatedBy:     &userID,
	}
	if err := s.db.Create(&indicator).Error; err != nil {
		return nil, fmt.Errorf("failed to add growth indicator: %w", err)
	}
	return &indicator, nil
}

// VerifyIndicator marks an indicator of kind as verified by moderatorID.
func (s *CompanyService) VerifyIndicator(kind string, id, moderatorID uuid.UUID) error {
	var model interface{}
	switch kind {
	case IndicatorDistress:
		model = &models.DistressIndicator{}
	case IndicatorGrowth:
		model = &models.GrowthIndicator{}
	default:
		return ErrIndicatorNotFound
	}

	result := s.db.Model(model).Where("id = ?", id).Updates(map[string]interface{}{
		"verified":    true,
		"verified_by": moderatorID,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to verify indicator: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIndicatorNotFound
	}
	return nil
}

// PendingIndicators lists unverified indicators of kind, oldest first.
func (s *CompanyService) PendingIndicators(kind string, p database.Page) (interface{}, int64, error) {
	var total int64
	switch kind {
	case IndicatorDistress:
		var rows []models.DistressIndicator
		q := s.db.Model(&models.DistressIndicator{}).Where("verified = ?", false)
		if err := q.Count(&total).Error; err != nil {
			return nil, 0, err
		}
		err := q.Order("created_at ASC").Scopes(database.Paginate(p)).Find(&rows).Error
		return rows, total, err
	case IndicatorGrowth:
		var rows []models.GrowthIndicator
		q := s.db.Model(&models.GrowthIndicator{}).Where("verified = ?", false)
		if err := q.Count(&total).Error; err != nil {
			return nil, 0, err
		}
		err := q.Order("created_at ASC").Scopes(database.Paginate(p)).Find(&rows).Error
		return rows, total, err
	}
	return nil, 0, ErrIndicatorNotFound
}

// verifiedIndicators scopes an indicator query to verified rows of live
// companies matching the filter, newest first.
func (s *CompanyService) verifiedIndicators(f dto.SectionFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		companies := s.db.Model(&models.Company{}).Select("id")
		if f.Industry != "" {
			companies = database.ILike(f.Industry, "industry")(companies)
		}
		if f.Location != "" {
			companies = database.ILike(f.Location, "location")(companies)
		}

		db = db.Where("verified = ? AND company_id IN (?)", true, companies)
		if d, ok := sectionTimeRanges[f.TimeRange]; ok {
			db = db.Where("detected_at >= ?", time.Now().Add(-d))
		}
		if len(f.IndicatorTypes) > 0 {
			db = db.Where("indicator_type IN ?", f.IndicatorTypes)
		}
		return db.Order("detected_at DESC").Order("id")
	}
}

// rank groups signals by company, scores each company and drops those
// outside the filter's score and funding bounds.
func (s *CompanyService) rank(signals []signal, f dto.SectionFilter) ([]*sectionEntry, error) {
	byCompany := map[uuid.UUID]*sectionEntry{}
	var ids []uuid.UUID
	for _, sig := range signals {
		e, ok := byCompany[sig.companyID]
		if !ok {
			e = &sectionEntry{}
			byCompany[sig.companyID] = e
			ids = append(ids, sig.companyID)
		}
		e.signals = append(e.signals, sig)
		if e.latestFunding == nil && sig.funding != nil {
			e.latestFunding = sig.funding
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var companies []models.Company
	if err := s.db.Where("id IN ?", ids).Find(&companies).Error; err != nil {
		return nil, err
	}

	out := make([]*sectionEntry, 0, len(companies))
	for _, c := range companies {
		e := byCompany[c.ID]
		e.company = c
		var sum float64
		for _, sig := range e.signals {
			sum += sig.score
		}
		e.score = int(math.Round(sum / float64(len(e.signals))))

		if e.score < f.MinScore || (f.MaxScore > 0 && e.score > f.MaxScore) {
			continue
		}
		if f.MinFunding > 0 && (e.latestFunding == nil || *e.latestFunding < f.MinFunding) {
			continue
		}
		out = append(out, e)
	}

	sortSection(out, f.SortBy, strings.EqualFold(f.Order, "asc"))
	return out, nil
}

func sortSection(entries []*sectionEntry, by string, asc bool) {
	funding := func(e *sectionEntry) float64 {
		if e.latestFunding == nil {
			return 0
		}
		return *e.latestFunding
	}
	less := func(a, b *sectionEntry) int {
		switch by {
		case "indicator_count":
			return len(a.signals) - len(b.signals)
		case "company_name":
			return strings.Compare(strings.ToLower(a.company.Name), strings.ToLower(b.company.Name))
		case "latest_indicator":
			return a.signals[0].detectedAt.Compare(b.signals[0].detectedAt)
		case "latest_funding":
			switch fa, fb := funding(a), funding(b); {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
		return a.score - b.score
	}
	sort.SliceStable(entries, func(i, j int) bool {
		c := less(entries[i], entries[j])
		if c == 0 {
			return entries[i].company.Name < entries[j].company.Name
		}
		if asc {
			return c < 0
		}
		return c > 0
	})
}

// mostCommon returns the indicator type counted most often across entries.
// Ties go to the alphabetically first type.
func mostCommon(entries []*sectionEntry) string {
	counts := map[string]int{}
	for _, e := range entries {
		for _, sig := range e.signals {
			counts[sig.typ]++
		}
	}
	best, bestCount := "", 0
	for typ, n := range counts {
		if n > bestCount || (n == bestCount && typ < best) {
			best, bestCount = typ, n
		}
	}
	return best
}

func averageScore(entries []*sectionEntry) int {
	if len(entries) == 0 {
		return 0
	}
	var sum int
	for _, e := range entries {
		sum += e.score
	}
	return int(math.Round(float64(sum) / float64(len(entries))))
}

func pageOf(entries []*sectionEntry, p database.Page) []*sectionEntry {
	start := p.Offset()
	if start >= len(entries) {
		return nil
	}
	end := start + p.Limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

// DistressCompanies lists companies with verified distress indicators,
// highest distress first unless the filter sorts otherwise.
func (s *CompanyService) DistressCompanies(f dto.SectionFilter) (*dto.DistressCompaniesResponse, error) {
	page := database.NewPage(f.Page, f.Limit)

	var indicators []models.DistressIndicator
	if err := s.db.Scopes(s.verifiedIndicators(f)).Find(&indicators).Error; err != nil {
		return nil, err
	}
	signals := make([]signal, len(indicators))
	for i, d := range indicators {
		signals[i] = distressSignal(i, d)
	}
	entries, err := s.rank(signals, f)
	if err != nil {
		return nil, err
	}

	out := &dto.DistressCompaniesResponse{
		Companies:            []dto.DistressCompany{},
		TotalCount:           len(entries),
		AverageDistressScore: averageScore(entries),
		MostCommonIndicator:  mostCommon(entries),
		Page:                 page.Page,
		Limit:                page.Limit,
	}
	for _, e := range pageOf(entries, page) {
		list := make([]models.DistressIndicator, len(e.signals))
		for i, sig := range e.signals {
			list[i] = indicators[sig.index]
		}
		out.Companies = append(out.Companies, dto.DistressCompany{
			ID:              e.company.ID,
			Name:            e.company.Name,
			Industry:        e.company.Industry,
			Location:        e.company.Location,
			AverageRating:   e.company.AverageRating,
			TotalReviews:    e.company.TotalReviews,
			DistressScore:   e.score,
			LatestIndicator: e.latest(),
			IndicatorCount:  len(e.signals),
			Indicators:      list,
		})
	}
	return out, nil
}

// RisingStartups lists companies with verified growth indicators, highest
// growth first unless the filter sorts otherwise.
func (s *CompanyService) RisingStartups(f dto.SectionFilter) (*dto.RisingStartupsResponse, error) {
	page := database.NewPage(f.Page, f.Limit)

	var indicators []models.GrowthIndicator
	if err := s.db.Scopes(s.verifiedIndicators(f)).Find(&indicators).Error; err != nil {
		return nil, err
	}
	signals := make([]signal, len(indicators))
	for i, g := range indicators {
		signals[i] = growthSignal(i, g)
	}
	entries, err := s.rank(signals, f)
	if err != nil {
		return nil, err
	}

	out := &dto.RisingStartupsResponse{
		Companies:           []dto.GrowthCompany{},
		TotalCount:          len(entries),
		AverageGrowthScore:  averageScore(entries),
		MostCommonIndicator: mostCommon(entries),
		Page:                page.Page,
		Limit:               page.Limit,
	}
	for _, e := range entries {
		if e.latestFunding != nil {
			out.TotalFunding += *e.latestFunding
		}
	}
	for _, e := range pageOf(entries, page) {
		list := make([]models.GrowthIndicator, len(e.signals))
		for i, sig := range e.signals {
			list[i] = indicators[sig.index]
		}
		out.Companies = append(out.Companies, dto.GrowthCompany{
			ID:              e.company.ID,
			Name:            e.company.Name,
			Industry:        e.company.Industry,
			Location:        e.company.Location,
			AverageRating:   e.company.AverageRating,
			TotalReviews:    e.company.TotalReviews,
			GrowthScore:     e.score,
			LatestIndicator: e.latest(),
			IndicatorCount:  len(e.signals),
			LatestFunding:   e.latestFunding,
			Indicators:      list,
		})
	}
	return out, nil
}

// DistressStatistics summarizes the distress section over every verified
// indicator.
func (s *CompanyService) DistressStatistics() (*dto.SectionStatistics, error) {
	var indicators []models.DistressIndicator
	if err := s.db.Scopes(s.verifiedIndicators(dto.SectionFilter{})).Find(&indicators).Error; err != nil {
		return nil, err
	}
	signals := make([]signal, len(indicators))
	for i, d := range indicators {
		signals[i] = distressSignal(i, d)
	}
	return s.sectionStatistics(signals, false)
}

// GrowthStatistics summarizes the rising startup section, including the
// latest known funding per company.
func (s *CompanyService) GrowthStatistics() (*dto.SectionStatistics, error) {
	var indicators []models.GrowthIndicator
	if err := s.db.Scopes(s.verifiedIndicators(dto.SectionFilter{})).Find(&indicators).Error; err != nil {
		return nil, err
	}
	signals := make([]signal, len(indicators))
	for i, g := range indicators {
		signals[i] = growthSignal(i, g)
	}
	return s.sectionStatistics(signals, true)
}

func (s *CompanyService) sectionStatistics(signals []signal, withFunding bool) (*dto.SectionStatistics, error) {
	entries, err := s.rank(signals, dto.SectionFilter{})
	if err != nil {
		return nil, err
	}

	out := &dto.SectionStatistics{
		TotalCompanies:  len(entries),
		AverageScore:    averageScore(entries),
		ByIndustry:      []dto.SectionIndustryStat{},
		ByIndicatorType: []dto.IndicatorTypeStat{},
		TrendData:       []dto.TrendPoint{},
	}

	type industryAgg struct {
		count, scoreSum int
		funding         float64
	}
	industries := map[string]*industryAgg{}
	var total float64
	for _, e := range entries {
		key := e.company.Industry
		if key == "" {
			key = "Unknown"
		}
		agg, ok := industries[key]
		if !ok {
			agg = &industryAgg{}
			industries[key] = agg
		}
		agg.count++
		agg.scoreSum += e.score
		if e.latestFunding != nil {
			agg.funding += *e.latestFunding
			total += *e.latestFunding
		}
	}
	for industry, agg := range industries {
		stat := dto.SectionIndustryStat{
			Industry:     industry,
			Count:        agg.count,
			AverageScore: int(math.Round(float64(agg.scoreSum) / float64(agg.count))),
		}
		if withFunding {
			funding := agg.funding
			stat.TotalFunding = &funding
		}
		out.ByIndustry = append(out.ByIndustry, stat)
	}
	sort.Slice(out.ByIndustry, func(i, j int) bool {
		a, b := out.ByIndustry[i], out.ByIndustry[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Industry < b.Industry
	})
	if withFunding {
		out.TotalFunding = &total
	}

	type valueAgg struct {
		count int
		sum   float64
	}
	types := map[string]*valueAgg{}
	months := map[string]*valueAgg{}
	cutoff := time.Now().AddDate(0, -trendMonths, 0)
	for _, e := range entries {
		for _, sig := range e.signals {
			t, ok := types[sig.typ]
			if !ok {
				t = &valueAgg{}
				types[sig.typ] = t
			}
			t.count++
			t.sum += sig.value

			if sig.detectedAt.Before(cutoff) {
				continue
			}
			key := sig.detectedAt.UTC().Format("2006-01")
			m, ok := months[key]
			if !ok {
				m = &valueAgg{}
				months[key] = m
			}
			m.count++
			m.sum += sig.score
		}
	}
	for typ, agg := range types {
		out.ByIndicatorType = append(out.ByIndicatorType, dto.IndicatorTypeStat{
			IndicatorType: typ,
			Count:         agg.count,
			AverageValue:  math.Round(agg.sum/float64(agg.count)*100) / 100,
		})
	}
	sort.Slice(out.ByIndicatorType, func(i, j int) bool {
		a, b := out.ByIndicatorType[i], out.ByIndicatorType[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.IndicatorType < b.IndicatorType
	})
	for month, agg := range months {
		out.TrendData = append(out.TrendData, dto.TrendPoint{
			Month:        month,
			Count:        agg.count,
			AverageScore: int(math.Round(agg.sum / float64(agg.count))),
		})
	}
	sort.Slice(out.TrendData, func(i, j int) bool {
		return out.TrendData[i].Month < out.TrendData[j].Month
	})
	return out, nil
}
