package models

import "time"

// Response graphs returned by the rules layer. They mirror what a client needs to
// render a task card without follow-up requests.

type ProjectDetail struct {
	Project
	Users []PublicUser `json:"users"`
}

type CommentDetail struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	User      *PublicUser `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

type TaskDetail struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Status      Status          `json:"status"`
	Priority    Priority        `json:"priority"`
	DueDate     *Date           `json:"due_date"`
	Project     *ProjectDetail  `json:"project"`
	Tag         *Tag            `json:"tag"`
	CreatedBy   *PublicUser     `json:"created_by"`
	AssignedTo  *PublicUser     `json:"assigned_to"`
	Comments    []CommentDetail `json:"comments"`
}

type KeyValue struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

type DeveloperLoad struct {
	DeveloperID int64       `json:"-"`
	Developer   *PublicUser `json:"developer"`
	OpenTasks   int         `json:"open_tasks"`
}

type MetricsCards struct {
	TotalTasks int `json:"total_tasks"`
	OpenTasks  int `json:"open_tasks"`
	DoneTasks  int `json:"done_tasks"`
	Overdue    int `json:"overdue"`
	DueSoon    int `json:"due_soon_7d"`
}

type MetricsCharts struct {
	StatusPie     []KeyValue      `json:"status_pie"`
	PriorityBar   []KeyValue      `json:"priority_bar"`
	DeveloperLoad []DeveloperLoad `json:"developer_load"`
}

type MetricsSnapshot struct {
	ProjectID int64         `json:"project_id"`
	Cards     MetricsCards  `json:"cards"`
	Charts    MetricsCharts `json:"charts"`
}

// Event is pushed to websocket subscribers. Audience limits delivery to the listed
// users; an empty audience reaches every connected client.
type Event struct {
	Type      string  `json:"type"`
	ProjectID int64   `json:"project_id,omitempty"`
	TaskID    int64   `json:"task_id,omitempty"`
	Data      any     `json:"data"`
	Audience  []int64 `json:"-"`
}

const (
	EventTaskCreated       = "task.created"
	EventTaskUpdated       = "task.updated"
	EventTaskStatusChanged = "task.status_changed"
	EventCommentAdded      = "comment.added"
	EventCommentDeleted    = "comment.deleted"
	EventTagChanged        = "tag.changed"
)
