package repository

import (
	"context"
	"errors"
	"fieldfuze-scheduler/dal"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockDatabaseClient implements dal.DatabaseClientInterface for testing
type MockDatabaseClient struct {
	mock.Mock
}

func (m *MockDatabaseClient) GetItem(ctx context.Context, config models.QueryConfig, result interface{}) error {
	args := m.Called(ctx, config, result)
	return args.Error(0)
}

func (m *MockDatabaseClient) UpdateItem(ctx context.Context, config models.QueryConfig, updates map[string]interface{}, result interface{}) error {
	args := m.Called(ctx, config, updates, result)
	return args.Error(0)
}

func (m *MockDatabaseClient) ScanWithFilter(ctx context.Context, tableName string, filter *models.ScanFilter, results interface{}) error {
	args := m.Called(ctx, tableName, filter, results)
	return args.Error(0)
}

func (m *MockDatabaseClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockDatabaseClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, tableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

// RepositoryTestSuite covers the appointment and technician repositories
type RepositoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	mockDB    *MockDatabaseClient
	container *RepositoryContainer
	config    *models.Config
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockDB = &MockDatabaseClient{}
	suite.config = &models.Config{DynamoDBTablePrefix: "fieldfuze"}
	suite.container = NewRepositoryContainer(suite.mockDB, suite.config, logger.NewNopLogger())
}

func (suite *RepositoryTestSuite) TearDownTest() {
	suite.mockDB.AssertExpectations(suite.T())
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) TestGetAppointment() {
	expected := models.QueryConfig{
		TableName: "fieldfuze_appointments",
		KeyName:   "id",
		KeyValue:  "42",
		KeyType:   models.NumberType,
	}
	suite.mockDB.On("GetItem", suite.ctx, expected, mock.AnythingOfType("*models.Appointment")).
		Run(func(args mock.Arguments) {
			appt := args.Get(2).(*models.Appointment)
			appt.ID = 42
			appt.ClientName = "Acme"
		}).
		Return(nil)

	appt, err := suite.container.GetAppointmentRepository().GetAppointment(suite.ctx, 42)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme", appt.ClientName)
}

func (suite *RepositoryTestSuite) TestGetAppointmentNotFound() {
	suite.mockDB.On("GetItem", suite.ctx, mock.Anything, mock.Anything).Return(dal.ErrItemNotFound)

	_, err := suite.container.GetAppointmentRepository().GetAppointment(suite.ctx, 7)

	assert.ErrorIs(suite.T(), err, models.ErrAppointmentNotFound)
}

func (suite *RepositoryTestSuite) TestGetAppointmentDatabaseError() {
	suite.mockDB.On("GetItem", suite.ctx, mock.Anything, mock.Anything).Return(errors.New("throttled"))

	_, err := suite.container.GetAppointmentRepository().GetAppointment(suite.ctx, 7)

	require.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, models.ErrAppointmentNotFound)
	assert.Contains(suite.T(), err.Error(), "throttled")
}

func (suite *RepositoryTestSuite) TestGetAppointmentsInWindow() {
	matchFilter := mock.MatchedBy(func(f *models.ScanFilter) bool {
		return f.Expression == windowFilterExpression &&
			f.Values[":start"] == int64(100) &&
			f.Values[":end"] == int64(200) &&
			f.Names["#rule"] == "recurrenceRule"
	})
	suite.mockDB.On("ScanWithFilter", suite.ctx, "fieldfuze_appointments", matchFilter, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(3).(*[]models.Appointment)
			*out = append(*out, models.Appointment{ID: 1}, models.Appointment{ID: 2})
		}).
		Return(nil)

	appointments, err := suite.container.GetAppointmentRepository().GetAppointmentsInWindow(suite.ctx, 100, 200)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), appointments, 2)
}

func (suite *RepositoryTestSuite) TestGetAppointmentsInWindowRejectsInvertedWindow() {
	_, err := suite.container.GetAppointmentRepository().GetAppointmentsInWindow(suite.ctx, 200, 100)

	assert.ErrorIs(suite.T(), err, models.ErrInvalidWindow)
}

func (suite *RepositoryTestSuite) TestUpdateSchedule() {
	appt := models.Appointment{ID: 9, StartDate: 10, EndDate: 20}
	matchUpdates := mock.MatchedBy(func(u map[string]interface{}) bool {
		techs, ok := u["technicians"].([]models.Technician)
		return u["startDate"] == int64(10) && u["endDate"] == int64(20) && ok && techs != nil
	})
	suite.mockDB.On("UpdateItem", suite.ctx, mock.AnythingOfType("models.QueryConfig"), matchUpdates, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(3).(*models.Appointment).ID = 9
		}).
		Return(nil)

	updated, err := suite.container.GetAppointmentRepository().UpdateSchedule(suite.ctx, appt)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(9), updated.ID)
}

func (suite *RepositoryTestSuite) TestUpdateScheduleNotFound() {
	suite.mockDB.On("UpdateItem", suite.ctx, mock.Anything, mock.Anything, mock.Anything).Return(dal.ErrItemNotFound)

	_, err := suite.container.GetAppointmentRepository().UpdateSchedule(suite.ctx, models.Appointment{ID: 1})

	assert.ErrorIs(suite.T(), err, models.ErrAppointmentNotFound)
}

func (suite *RepositoryTestSuite) TestListTechniciansSortsRoster() {
	suite.mockDB.On("ScanWithFilter", suite.ctx, "fieldfuze_technicians", (*models.ScanFilter)(nil), mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(3).(*[]models.Technician)
			*out = []models.Technician{
				{ID: models.Int64Ptr(3), Name: "Cid", SortOrder: 2},
				{ID: models.Int64Ptr(2), Name: "Bob", SortOrder: 1},
				{ID: models.Int64Ptr(1), Name: "Amy", SortOrder: 1},
			}
		}).
		Return(nil)

	techs, err := suite.container.GetTechnicianRepository().ListTechnicians(suite.ctx)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), techs, 3)
	assert.Equal(suite.T(), "Amy", techs[0].Name)
	assert.Equal(suite.T(), "Bob", techs[1].Name)
	assert.Equal(suite.T(), "Cid", techs[2].Name)
}

func (suite *RepositoryTestSuite) TestListTechniciansError() {
	suite.mockDB.On("ScanWithFilter", suite.ctx, "fieldfuze_technicians", (*models.ScanFilter)(nil), mock.Anything).
		Return(errors.New("table missing"))

	_, err := suite.container.GetTechnicianRepository().ListTechnicians(suite.ctx)

	assert.Error(suite.T(), err)
}
