package models

// AttributeType enum for different DynamoDB attribute types
type AttributeType int

const (
	StringType AttributeType = iota
	NumberType
	BinaryType
)

// QueryConfig holds all the configuration for any DynamoDB query
type QueryConfig struct {
	TableName string
	KeyName   string
	KeyValue  string
	KeyType   AttributeType // For different data types
}

// ScanFilter narrows a table scan with a DynamoDB filter expression
type ScanFilter struct {
	Expression string
	Names      map[string]string
	// Values are marshalled with attributevalue before the scan
	Values map[string]interface{}
}
