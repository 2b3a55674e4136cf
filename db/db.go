package db

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/constants"
	"github.com/jsphweid/mdlfit/model"
)

type TooManyKeysError struct {
	Got int
}

func (e TooManyKeysError) Error() string {
	return fmt.Sprintf("Not supposed to pass in more than %d filenames, got %d", constants.MetadataBatchSize, e.Got)
}

// Store reads piece provenance from the metadata table. Every item is keyed
// by file name under PK.
type Store struct {
	Client dynamodbiface.DynamoDBAPI
	Table  string
}

func NewStore() (*Store, error) {
	endpoint := constants.GetDynamoEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return &Store{Client: dynamodb.New(sess), Table: constants.MetadataTable}, nil
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v.S != nil {
		return *v.S
	}
	return ""
}

func (s *Store) GetPieceMetadatas(filenames []string) (map[string]model.Metadata, error) {
	if len(filenames) > constants.MetadataBatchSize {
		return nil, errors.WithStackTrace(TooManyKeysError{Got: len(filenames)})
	}

	res := make(map[string]model.Metadata)

	if len(filenames) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		key := make(map[string]*dynamodb.AttributeValue)
		key["PK"] = &dynamodb.AttributeValue{
			S: aws.String(filename),
		}
		keys = append(keys, key)
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.Table: {Keys: keys},
		},
	}
	dbres, err := s.Client.BatchGetItem(input)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	for _, v := range dbres.Responses[s.Table] {
		var m model.Metadata
		if year, ok := v["Year"]; ok && year.N != nil {
			parsed, _ := strconv.ParseUint(*year.N, 10, 32)
			m.Year = uint(parsed)
		}
		m.Artist = stringAttr(v, "Artist")
		m.Release = stringAttr(v, "Release")
		m.Title = stringAttr(v, "Title")
		res[stringAttr(v, "PK")] = m
	}

	return res, nil
}
