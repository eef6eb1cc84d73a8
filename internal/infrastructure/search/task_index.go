package search

import (
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
)

// TaskIndex keeps a searchable copy of task titles and descriptions.
type TaskIndex struct {
	ix index
}

func NewTaskIndex(es *elasticsearch.Client, name string) *TaskIndex {
	return &TaskIndex{ix: index{es: es, name: name}}
}

func (t *TaskIndex) Enabled() bool { return t != nil && t.ix.enabled() }

func taskDocument(task *entity.Task) map[string]any {
	doc := map[string]any{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"project_id":  task.ProjectID,
		"created_by":  task.CreatedBy,
		"updated_at":  task.UpdatedAt.Format(time.RFC3339Nano),
	}
	if task.AssigneeID != nil {
		doc["assignee_id"] = *task.AssigneeID
	}
	return doc
}

func (t *TaskIndex) IndexTask(ctx context.Context, task *entity.Task) error {
	if !t.Enabled() {
		return nil
	}
	return t.ix.put(ctx, task.ID, taskDocument(task))
}

func (t *TaskIndex) DeleteTask(ctx context.Context, id string) error {
	if !t.Enabled() {
		return nil
	}
	return t.ix.delete(ctx, id)
}

func (t *TaskIndex) DeleteProjectTasks(ctx context.Context, projectID string) error {
	if !t.Enabled() {
		return nil
	}
	return t.ix.deleteByQuery(ctx, map[string]any{
		"term": map[string]any{"project_id": projectID},
	})
}

func taskQuery(projectID, q string, size int) map[string]any {
	return map[string]any{
		"size": clampSize(size),
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"title^3", "description"},
						"fuzziness": "AUTO",
					}},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"project_id": projectID}},
				},
			},
		},
	}
}

// SearchTasks returns ids of tasks in projectID matching q, best match first.
func (t *TaskIndex) SearchTasks(ctx context.Context, projectID, q string, size int) ([]string, error) {
	if !t.Enabled() {
		return []string{}, nil
	}
	return t.ix.searchIDs(ctx, taskQuery(projectID, q, size))
}
