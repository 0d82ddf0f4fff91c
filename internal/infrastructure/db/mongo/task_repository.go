package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

const taskCollection = "tasks"

type MongoTaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection(taskCollection)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	DueDate     *time.Time         `bson:"due_date,omitempty"`
	UserID      string             `bson:"user_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mt *mongoTask) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          mt.ID.Hex(),
		Title:       mt.Title,
		Description: mt.Description,
		Status:      domain.TaskStatus(mt.Status),
		UserID:      mt.UserID,
		CreatedAt:   mt.CreatedAt.UTC(),
		UpdatedAt:   mt.UpdatedAt.UTC(),
	}
	if mt.DueDate != nil {
		due := mt.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

// EnsureIndexes creates the compound index backing the owner-scoped,
// due-date-ordered list query.
func (r *MongoTaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "due_date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

// ListByUser returns the user's tasks ordered by due date ascending. Tasks
// without a due date have no due_date field and sort first; that ordering is
// part of the repository contract.
func (r *MongoTaskRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]*domain.Task, 0)
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	doc := mongoTask{
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// Update applies the non-nil fields of upd in a single FindOneAndUpdate
// filtered by both task ID and owner. A task owned by someone else matches
// nothing and reports ErrTaskNotFound, same as a missing one.
func (r *MongoTaskRepository) Update(ctx context.Context, taskID, userID string, upd ports.TaskUpdate) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}
	if upd.DueDate != nil {
		set["due_date"] = *upd.DueDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mt mongoTask
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": set},
		opts,
	).Decode(&mt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, taskID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
