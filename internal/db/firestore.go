package db

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// DefaultCollection is the Firestore collection holding task documents.
const DefaultCollection = "tasks"

// FirestoreConfig locates the Firestore project.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string // empty uses application default credentials
	Collection      string
}

// Firestore implements task.Repository on Cloud Firestore. Each task is one
// document; a day's view queries documents whose date field matches.
type Firestore struct {
	client     *firestore.Client
	collection string
	log        logrus.FieldLogger
	retry      RetryPolicy
}

// NewFirestore initializes a Firebase app and opens its Firestore client.
// FIRESTORE_EMULATOR_HOST is honored by the client library.
func NewFirestore(ctx context.Context, cfg FirestoreConfig, opts ...Option) (*Firestore, error) {
	o := buildOptions(opts)

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening firestore client: %w", err)
	}

	return newFirestore(client, cfg.Collection, o), nil
}

func newFirestore(client *firestore.Client, collection string, o options) *Firestore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Firestore{
		client:     client,
		collection: collection,
		log:        o.log.WithFields(logrus.Fields{"store": "firestore", "collection": collection}),
		retry:      o.retry,
	}
}

func (f *Firestore) doc(id string) *firestore.DocumentRef {
	return f.client.Collection(f.collection).Doc(id)
}

// ListTasksForDate returns the documents stored under date, sorted by start
// time. Transient failures are retried; corrupted documents are skipped.
func (f *Firestore) ListTasksForDate(ctx context.Context, date time.Time) ([]*task.Task, error) {
	ds := dateutil.DateString(date)

	var tasks []*task.Task
	err := f.retry.do(ctx, func() error {
		tasks = tasks[:0]
		iter := f.client.Collection(f.collection).Where("date", "==", ds).Documents(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err == iterator.Done {
				return nil
			}
			if err != nil {
				f.log.WithError(err).WithField("date", ds).Warn("reading tasks failed")
				return err
			}
			t, err := f.decodeSnapshot(snap)
			if err != nil {
				f.log.WithError(err).WithField("task_id", snap.Ref.ID).Warn("skipping corrupted task")
				continue
			}
			tasks = append(tasks, t)
		}
	})
	if err != nil {
		return nil, translate("querying tasks", err)
	}

	slices.SortStableFunc(tasks, func(a, b *task.Task) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return tasks, nil
}

func (f *Firestore) decodeSnapshot(snap *firestore.DocumentSnapshot) (*task.Task, error) {
	var rec record
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", task.ErrCorruptedTask, snap.Ref.ID, err)
	}
	t, repaired, err := decode(snap.Ref.ID, rec)
	if err != nil {
		return nil, err
	}
	if repaired {
		f.log.WithField("task_id", t.ID).Debug("repaired legacy task fields")
	}
	return t, nil
}

// GetTask retrieves a task document by ID.
func (f *Firestore) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var snap *firestore.DocumentSnapshot
	err := f.retry.do(ctx, func() error {
		var err error
		snap, err = f.doc(id).Get(ctx)
		return err
	})
	if err != nil {
		return nil, translate("getting task "+id, err)
	}
	return f.decodeSnapshot(snap)
}

// CreateTask adds a document and sets the task's ID to the document ID.
func (f *Firestore) CreateTask(ctx context.Context, t *task.Task) error {
	rec := newRecord(t)
	ref, _, err := f.client.Collection(f.collection).Add(ctx, rec)
	if err != nil {
		f.log.WithError(err).Error("adding task failed")
		return translate("adding task", err)
	}

	t.ID = ref.ID
	t.CrossesMidnight = *rec.CrossesMidnight
	t.Duration = int(*rec.Duration)
	t.Version = int(rec.Version)
	f.log.WithFields(logrus.Fields{"task_id": ref.ID, "date": rec.Date}).Debug("task created")
	return nil
}

// UpdateTask applies a partial update inside a transaction so the derived
// fields are recomputed from the stored bounds.
func (f *Firestore) UpdateTask(ctx context.Context, id string, u task.TaskUpdate) error {
	ref := f.doc(id)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := f.decodeSnapshot(snap)
		if err != nil {
			return err
		}
		updated := u.Apply(current)
		return tx.Update(ref, []firestore.Update{
			{Path: "name", Value: updated.Name},
			{Path: "startTime", Value: updated.StartTime},
			{Path: "endTime", Value: updated.EndTime},
			{Path: "priority", Value: string(updated.Priority)},
			{Path: "completed", Value: updated.Completed},
			{Path: "crossesMidnight", Value: updated.CrossesMidnight},
			{Path: "duration", Value: updated.Duration},
		})
	})
	if err != nil {
		f.log.WithError(err).WithField("task_id", id).Error("updating task failed")
		return translate("updating task "+id, err)
	}
	return nil
}

// DeleteTask removes a task document. Missing documents report ErrTaskNotFound.
func (f *Firestore) DeleteTask(ctx context.Context, id string) error {
	if _, err := f.doc(id).Delete(ctx, firestore.Exists); err != nil {
		f.log.WithError(err).WithField("task_id", id).Error("deleting task failed")
		return translate("deleting task "+id, err)
	}
	return nil
}

// ToggleCompletion reads the completed flag and writes its negation in one
// transaction.
func (f *Firestore) ToggleCompletion(ctx context.Context, id string) (bool, error) {
	ref := f.doc(id)
	var next bool
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var rec record
		if err := snap.DataTo(&rec); err != nil {
			return fmt.Errorf("%w: %s: %v", task.ErrCorruptedTask, id, err)
		}
		next = !rec.Completed
		return tx.Update(ref, []firestore.Update{{Path: "completed", Value: next}})
	})
	if err != nil {
		f.log.WithError(err).WithField("task_id", id).Error("toggling completion failed")
		return false, translate("toggling task "+id, err)
	}
	return next, nil
}

// Close closes the Firestore client.
func (f *Firestore) Close() error {
	return f.client.Close()
}
