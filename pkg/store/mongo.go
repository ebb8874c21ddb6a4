package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	errs "github.com/matzehuels/sppgrowth/pkg/errors"
	"github.com/matzehuels/sppgrowth/pkg/pattern"
	"github.com/matzehuels/sppgrowth/pkg/pipeline"
)

// RunsCollection is the collection runs are written to.
const RunsCollection = "runs"

// Mongo stores one document per run in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongo connects to uri, checks the connection and makes sure the
// database-hash index exists.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStore, err, "ping mongodb")
	}

	m := NewMongoFromClient(client, database)
	_, err = m.runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "db_hash", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStore, err, "create index")
	}
	return m, nil
}

// NewMongoFromClient wraps an existing client. The caller keeps ownership of
// index management.
func NewMongoFromClient(client *mongo.Client, database string) *Mongo {
	return &Mongo{
		client: client,
		runs:   client.Database(database).Collection(RunsCollection),
	}
}

// SaveRun inserts run.
func (m *Mongo) SaveRun(ctx context.Context, run *Run) error {
	ensureID(run)
	if _, err := m.runs.InsertOne(ctx, toDoc(run)); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "save run %s", run.ID)
	}
	return nil
}

// Run fetches a run by id.
func (m *Mongo) Run(ctx context.Context, id string) (*Run, error) {
	var doc runDoc
	err := m.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.New(errs.ErrCodeNotFound, "run %s not found", id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "load run %s", id)
	}
	return fromDoc(doc), nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)

// runDoc is the stored shape of a Run.
type runDoc struct {
	ID        string       `bson:"_id"`
	CreatedAt time.Time    `bson:"created_at"`
	DBHash    string       `bson:"db_hash"`
	Options   optionsDoc   `bson:"options"`
	Patterns  []patternDoc `bson:"patterns"`
	Stats     statsDoc     `bson:"stats"`
}

type optionsDoc struct {
	MinSupport int    `bson:"min_support"`
	TopK       int    `bson:"top_k"`
	MaxLength  int    `bson:"max_length"`
	Bound      string `bson:"bound"`
}

type patternDoc struct {
	Items   []int `bson:"items"`
	Support int   `bson:"support"`
	Bound   int   `bson:"bound"`
}

type statsDoc struct {
	Transactions     int   `bson:"transactions"`
	Items            int   `bson:"items"`
	FrequentItems    int   `bson:"frequent_items"`
	TreeNodes        int   `bson:"tree_nodes"`
	Patterns         int   `bson:"patterns"`
	ConditionalTrees int   `bson:"conditional_trees"`
	MaxDepth         int   `bson:"max_depth"`
	LoadMillis       int64 `bson:"load_ms"`
	BuildMillis      int64 `bson:"build_ms"`
	MineMillis       int64 `bson:"mine_ms"`
}

func toDoc(run *Run) runDoc {
	doc := runDoc{
		ID:        run.ID,
		CreatedAt: run.CreatedAt,
		DBHash:    run.DatabaseHash,
		Options:   optionsDoc(run.Options),
		Patterns:  make([]patternDoc, len(run.Patterns)),
		Stats: statsDoc{
			Transactions:     run.Stats.Transactions,
			Items:            run.Stats.Items,
			FrequentItems:    run.Stats.FrequentItems,
			TreeNodes:        run.Stats.TreeNodes,
			Patterns:         run.Stats.Patterns,
			ConditionalTrees: run.Stats.ConditionalTrees,
			MaxDepth:         run.Stats.MaxDepth,
			LoadMillis:       run.Stats.LoadTime.Milliseconds(),
			BuildMillis:      run.Stats.BuildTime.Milliseconds(),
			MineMillis:       run.Stats.MineTime.Milliseconds(),
		},
	}
	for i, p := range run.Patterns {
		doc.Patterns[i] = patternDoc{Items: p.Sorted(), Support: p.Support, Bound: p.Bound}
	}
	return doc
}

func fromDoc(doc runDoc) *Run {
	run := &Run{
		ID:           doc.ID,
		CreatedAt:    doc.CreatedAt,
		DatabaseHash: doc.DBHash,
		Options:      RunOptions(doc.Options),
		Patterns:     make([]pattern.Itemset, len(doc.Patterns)),
		Stats: pipeline.Stats{
			Transactions:     doc.Stats.Transactions,
			Items:            doc.Stats.Items,
			FrequentItems:    doc.Stats.FrequentItems,
			TreeNodes:        doc.Stats.TreeNodes,
			Patterns:         doc.Stats.Patterns,
			ConditionalTrees: doc.Stats.ConditionalTrees,
			MaxDepth:         doc.Stats.MaxDepth,
			LoadTime:         time.Duration(doc.Stats.LoadMillis) * time.Millisecond,
			BuildTime:        time.Duration(doc.Stats.BuildMillis) * time.Millisecond,
			MineTime:         time.Duration(doc.Stats.MineMillis) * time.Millisecond,
		},
	}
	for i, p := range doc.Patterns {
		run.Patterns[i] = pattern.New(p.Items, pattern.Stat{Support: p.Support, Bound: p.Bound})
	}
	return run
}
