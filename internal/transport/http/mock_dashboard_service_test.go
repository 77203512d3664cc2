package http

import (
	"context"
	"io"
	"os"

	"github.com/stretchr/testify/mock"

	"agrodash/internal/charts"
	"agrodash/internal/exporter"
	"agrodash/internal/files"
	"agrodash/internal/services"
	"agrodash/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Meta(ctx context.Context) services.Meta {
	args := m.Called()
	return args.Get(0).(services.Meta)
}

func (m *MockDashboardService) Criteria(req services.CriteriaRequest) (domain.FilterCriteria, error) {
	args := m.Called(req)
	return args.Get(0).(domain.FilterCriteria), args.Error(1)
}

func (m *MockDashboardService) Records(ctx context.Context, c domain.FilterCriteria) (domain.View, error) {
	args := m.Called(c)
	return args.Get(0).(domain.View), args.Error(1)
}

func (m *MockDashboardService) Monthly(ctx context.Context, c domain.FilterCriteria) (domain.MonthlySummary, error) {
	args := m.Called(c)
	return args.Get(0).(domain.MonthlySummary), args.Error(1)
}

func (m *MockDashboardService) DollarAverage(ctx context.Context, c domain.FilterCriteria) (domain.DollarAverage, error) {
	args := m.Called(c)
	return args.Get(0).(domain.DollarAverage), args.Error(1)
}

func (m *MockDashboardService) Correlation(ctx context.Context, c domain.FilterCriteria) (domain.CorrelationMatrix, error) {
	args := m.Called(c)
	return args.Get(0).(domain.CorrelationMatrix), args.Error(1)
}

func (m *MockDashboardService) Trend(ctx context.Context, c domain.FilterCriteria, xColumn, yColumn string) (services.TrendResult, error) {
	args := m.Called(c, xColumn, yColumn)
	return args.Get(0).(services.TrendResult), args.Error(1)
}

func (m *MockDashboardService) Chart(ctx context.Context, w io.Writer, c domain.FilterCriteria, mode domain.VisualizationMode, f charts.Format) (string, error) {
	args := m.Called(w, c, mode, f)
	return args.String(0), args.Error(1)
}

func (m *MockDashboardService) Export(ctx context.Context, w io.Writer, c domain.FilterCriteria, mode domain.VisualizationMode, f exporter.Format) (string, error) {
	args := m.Called(w, c, mode, f)
	return args.String(0), args.Error(1)
}

func (m *MockDashboardService) Artifacts(ctx context.Context) ([]files.FileInfo, error) {
	args := m.Called()
	return args.Get(0).([]files.FileInfo), args.Error(1)
}

func (m *MockDashboardService) OpenArtifact(ctx context.Context, name string) (*os.File, files.FileInfo, error) {
	args := m.Called(name)
	f, _ := args.Get(0).(*os.File)
	return f, args.Get(1).(files.FileInfo), args.Error(2)
}
