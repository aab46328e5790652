package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blinderbots/hottecouture-sub000/internal/models"
	"github.com/blinderbots/hottecouture-sub000/internal/workflow"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetClientByID retrieves a client by ID
func (s *Store) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := s.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient creates a new client
func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (name, phone, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, client, query, client.Name, client.Phone, client.Email)
}

// GetServiceByID retrieves a catalog service by ID
func (s *Store) GetServiceByID(ctx context.Context, id int64) (*models.Service, error) {
	var svc models.Service
	err := s.db.GetContext(ctx, &svc, "SELECT * FROM services WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

// GetServices retrieves the whole service catalog
func (s *Store) GetServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := s.db.SelectContext(ctx, &services, "SELECT * FROM services ORDER BY id")
	return services, err
}

// GetServicesByIDs retrieves multiple catalog services by IDs
func (s *Store) GetServicesByIDs(ctx context.Context, ids []int64) ([]models.Service, error) {
	if len(ids) == 0 {
		return []models.Service{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM services WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var services []models.Service
	err = s.db.SelectContext(ctx, &services, query, args...)
	return services, err
}

// GetTaskByID retrieves a task by ID
func (s *Store) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	err := s.db.GetContext(ctx, &task, "SELECT * FROM tasks WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTasksByOrderID retrieves all tasks for an order
func (s *Store) GetTasksByOrderID(ctx context.Context, orderID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT * FROM tasks WHERE order_id = $1 ORDER BY id", orderID)
	return tasks, err
}

// GetTasksByStage retrieves all tasks currently in a stage (one board column)
func (s *Store) GetTasksByStage(ctx context.Context, stage workflow.Stage) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT * FROM tasks WHERE stage = $1 ORDER BY updated_at", stage)
	return tasks, err
}

// CreateTask creates a new task in the pending stage
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (order_id, garment_id, service_id, stage, assigned_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, task, query,
		task.OrderID, task.GarmentID, task.ServiceID, task.Stage, task.AssignedTo)
}

// UpdateTaskStageTx moves a task to a new stage and writes the audit row in
// one transaction, so the board and its history never disagree.
func (s *Store) UpdateTaskStageTx(ctx context.Context, change *models.StageChange) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE tasks SET stage = $1, updated_at = NOW() WHERE id = $2 AND stage = $3",
		change.ToStage, change.TaskID, change.FromStage)
	if err != nil {
		return fmt.Errorf("failed to update task stage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %d no longer in stage %s", change.TaskID, change.FromStage)
	}

	err = tx.GetContext(ctx, &change.ID, `
		INSERT INTO stage_changes (task_id, from_stage, to_stage, reason, changed_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		change.TaskID, change.FromStage, change.ToStage, change.Reason, change.ChangedBy)
	if err != nil {
		return fmt.Errorf("failed to write stage change: %w", err)
	}

	return tx.Commit()
}

// GetStageChangesByTaskID retrieves the audit trail for a task
func (s *Store) GetStageChangesByTaskID(ctx context.Context, taskID int64) ([]models.StageChange, error) {
	var changes []models.StageChange
	err := s.db.SelectContext(ctx, &changes,
		"SELECT * FROM stage_changes WHERE task_id = $1 ORDER BY changed_at", taskID)
	return changes, err
}

// AssignTask sets the seamstress a task is assigned to
func (s *Store) AssignTask(ctx context.Context, taskID int64, assignee string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET assigned_to = $1, updated_at = NOW() WHERE id = $2",
		assignee, taskID)
	return err
}
