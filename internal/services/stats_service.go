package services

import (
	"math"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// groupRow is one aggregate over companies grouped by a column. Ratings are
// weighted by review count so companies without reviews do not drag the
// average down.
type groupRow struct {
	Key          string
	RatingSum    float64
	CompanyCount int64
	ReviewCount  int64
}

func (s *StatsService) groupBy(column string) ([]groupRow, error) {
	var rows []groupRow
	err := s.db.Model(&models.Company{}).
		Select(column + " AS key, SUM(average_rating * total_reviews) AS rating_sum, COUNT(*) AS company_count, SUM(total_reviews) AS review_count").
		Where(column + " <> ''").
		Group(column).
		Order("review_count DESC").Order(column).
		Scan(&rows).Error
	return rows, err
}

func avg(sum float64, n int64) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}

func (s *StatsService) Industries() ([]dto.IndustryStat, error) {
	rows, err := s.groupBy("industry")
	if err != nil {
		return nil, err
	}
	out := make([]dto.IndustryStat, len(rows))
	for i, r := range rows {
		out[i] = dto.IndustryStat{
			Industry:     r.Key,
			AvgRating:    avg(r.RatingSum, r.ReviewCount),
			CompanyCount: r.CompanyCount,
			ReviewCount:  r.ReviewCount,
		}
	}
	return out, nil
}

func (s *StatsService) Locations() ([]dto.LocationStat, error) {
	rows, err := s.groupBy("location")
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationStat, len(rows))
	for i, r := range rows {
		out[i] = dto.LocationStat{
			Location:     r.Key,
			AvgRating:    avg(r.RatingSum, r.ReviewCount),
			CompanyCount: r.CompanyCount,
			ReviewCount:  r.ReviewCount,
		}
	}
	return out, nil
}

func (s *StatsService) Dashboard() (*dto.DashboardStats, error) {
	out := &dto.DashboardStats{ReviewsByState: map[string]int64{}}

	counts := []struct {
		model interface{}
		where string
		args  []interface{}
		dest  *int64
	}{
		{&models.UserProfile{}, "", nil, &out.Users},
		{&models.Company{}, "", nil, &out.Companies},
		{&models.Review{}, "", nil, &out.Reviews},
		{&models.ReviewReport{}, "status = ?", []interface{}{models.ReportPending}, &out.OpenReports},
		{&models.NewsArticle{}, "", nil, &out.NewsArticles},
	}
	for _, c := range counts {
		q := s.db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.Review{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		out.ReviewsByState[row.Status] = row.Count
	}
	return out, nil
}
