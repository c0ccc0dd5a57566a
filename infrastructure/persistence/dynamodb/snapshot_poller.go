package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
)

// Subscribe starts a poller that periodically reads the full object set of a
// project and hands it to onSnapshot, sorted by ZIndex. The first snapshot
// is fetched synchronously so subscribers start from current state.
func (s *CanvasStore) Subscribe(ctx context.Context, projectID string, onSnapshot ports.SnapshotHandler) (ports.Unsubscribe, error) {
	snap, err := s.fetchSnapshot(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot failed: %w", err)
	}
	onSnapshot(snap)

	pollCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				snap, err := s.fetchSnapshot(pollCtx, projectID)
				if err != nil {
					if pollCtx.Err() != nil {
						return
					}
					s.logger.Warn("snapshot poll failed",
						zap.String("project_id", projectID),
						zap.Error(err))
					continue
				}
				onSnapshot(snap)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

func (s *CanvasStore) fetchSnapshot(ctx context.Context, projectID string) (ports.Snapshot, error) {
	var items []objectItem
	var lastKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: projectKey(projectID)},
				":sk": &types.AttributeValueMemberS{Value: "OBJECT#"},
			},
			ExclusiveStartKey: lastKey,
		}

		result, err := s.client.Query(ctx, input)
		if err != nil {
			return ports.Snapshot{}, fmt.Errorf("failed to query objects: %w", err)
		}

		var page []objectItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return ports.Snapshot{}, fmt.Errorf("failed to unmarshal objects: %w", err)
		}
		items = append(items, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].ZIndex < items[j].ZIndex })

	objects := make([]*entities.CanvasObject, len(items))
	for i, item := range items {
		objects[i] = fromItem(item)
	}

	return ports.Snapshot{ProjectID: projectID, Objects: objects}, nil
}
