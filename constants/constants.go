package constants

import "os"

func GetDataDir() string {
	path := os.Getenv("MDLFIT_DATA_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetMediaDir() string {
	return os.Getenv("MEDIA_PATH")
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetLogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		return level
	}
	return "info"
}

const MetadataTable = "mdlfit-metadata"

// DynamoDB BatchGetItem accepts at most 100 keys per request
const MetadataBatchSize = 100

// precision grid is 2^MinPrecisionExponent .. 2^MaxPrecisionExponent
const MinPrecisionExponent = 1
const MaxPrecisionExponent = 8

const DefaultSignature = "4/4"
const DefaultBeatSubdivisions = 2
const DefaultDatasetName = "dataset"

const ReportColWidth = 80

const EncodedExt = ".gob"
