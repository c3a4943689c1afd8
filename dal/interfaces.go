package dal

import (
	"context"
	"fieldfuze-scheduler/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DatabaseClientInterface defines the contract for database operations
type DatabaseClientInterface interface {
	// Item operations
	GetItem(ctx context.Context, config models.QueryConfig, result interface{}) error
	UpdateItem(ctx context.Context, config models.QueryConfig, updates map[string]interface{}, result interface{}) error

	// Scan operations
	ScanWithFilter(ctx context.Context, tableName string, filter *models.ScanFilter, results interface{}) error

	// Table management operations
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
}

// DALContainerInterface defines the contract for the DAL container
type DALContainerInterface interface {
	GetDatabaseClient() DatabaseClientInterface
}
