package api

import (
	"context"
	"fmt"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

// profileResponse is the body of GET /employee/profile: the user
// document with the task board embedded.
type profileResponse struct {
	User   userDTO       `json:"user"`
	Tasks  []taskDTO     `json:"tasks"`
	Counts taskCountsDTO `json:"taskCounts"`
}

// Profile retrieves the authenticated employee's own profile, task
// board, and per-status counts.
func (c *Client) Profile(ctx context.Context) (*ProfileResult, error) {
	var resp profileResponse
	if err := c.Get(ctx, "/employee/profile", &resp); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	return &ProfileResult{
		Profile: resp.User.toProfile(),
		Tasks:   tasksToModel(resp.Tasks),
		Counts:  resp.Counts.toModel(),
	}, nil
}

// UpdateTaskStatus asks the backend to move a task to the given
// status. The client never mutates local state on its own; callers
// must trigger a full refresh after a successful call.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID string, to model.Status) error {
	body := map[string]string{"taskStatus": string(to)}

	if err := c.Put(ctx, "/employee/task/"+taskID, body, nil); err != nil {
		return fmt.Errorf("updating status of task %s: %w", taskID, err)
	}

	return nil
}
