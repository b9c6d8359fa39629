package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/config"
	"github.com/bbernstein/tidetracker/internal/models"
)

// DynamoExtremesCache stores raw NOAA hi/lo responses in DynamoDB, keyed by
// station and date window.
type DynamoExtremesCache struct {
	client DynamoDBClient
	config *config.CacheConfig
	clock  clock
}

func NewDynamoExtremesCache(client DynamoDBClient, cacheConfig *config.CacheConfig) *DynamoExtremesCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoExtremesCache{
		client: client,
		config: cacheConfig,
		clock:  realClock{},
	}
}

// GetExtremes returns the cached record, or nil when absent or expired.
func (c *DynamoExtremesCache) GetExtremes(ctx context.Context, stationID, window string) (*models.ExtremesRecord, error) {
	result, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.config.ExtremesTableName),
		Key: map[string]types.AttributeValue{
			"stationId": &types.AttributeValueMemberS{Value: stationID},
			"window":    &types.AttributeValueMemberS{Value: window},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting extremes from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.ExtremesRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling extremes record: %w", err)
	}

	if c.clock.Now().Unix() >= record.TTL {
		log.Debug().
			Str("station_id", stationID).
			Str("window", window).
			Msg("Cache expired")
		return nil, nil
	}

	return &record, nil
}

// SaveExtremes stamps the record with the configured TTL and writes it.
func (c *DynamoExtremesCache) SaveExtremes(ctx context.Context, record models.ExtremesRecord) error {
	item, err := c.marshal(record)
	if err != nil {
		return err
	}

	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.config.ExtremesTableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting extremes in DynamoDB: %w", err)
	}

	log.Debug().
		Str("station_id", record.StationID).
		Str("window", record.Window).
		Int("extremes", len(record.Extremes)).
		Msg("Saved extremes to cache")

	return nil
}

// SaveExtremesBatch writes records in chunks of BatchSize, retrying each chunk
// with exponential backoff.
func (c *DynamoExtremesCache) SaveExtremesBatch(ctx context.Context, records []models.ExtremesRecord) error {
	batchSize := c.config.BatchSize
	if batchSize <= 0 {
		batchSize = 25
	}

	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, record := range records[i:end] {
			item, err := c.marshal(record)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := c.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	return nil
}

func (c *DynamoExtremesCache) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	var lastErr error
	for retry := 0; retry < max(c.config.MaxBatchRetries, 1); retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<(retry-1)) * 100 * time.Millisecond):
			}
		}

		out, err := c.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				c.config.ExtremesTableName: requests,
			},
		})
		if err != nil {
			lastErr = err
			continue
		}

		requests = out.UnprocessedItems[c.config.ExtremesTableName]
		if len(requests) == 0 {
			return nil
		}
		lastErr = fmt.Errorf("%d items unprocessed", len(requests))
	}

	return fmt.Errorf("batch writing extremes after %d retries: %w", c.config.MaxBatchRetries, lastErr)
}

func (c *DynamoExtremesCache) marshal(record models.ExtremesRecord) (map[string]types.AttributeValue, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extremes record: %w", err)
	}

	now := c.clock.Now().Unix()
	record.LastUpdated = now
	record.TTL = now + int64(c.config.GetDynamoTTL().Seconds())

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("marshaling extremes record: %w", err)
	}
	return item, nil
}
