package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	serviceserrors "queendoctor/internal/services/errors"
	mongoutil "queendoctor/pkg/db/mongo"
	"queendoctor/pkg/model"
)

var testTimeouts = mongoutil.Timeouts{Read: 5 * time.Second, Write: 5 * time.Second}

func namespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + CollectionName
}

func TestFindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns every document verbatim", func(mt *mtest.T) {
		repo := NewMongoServiceRepository(mt.DB, testTimeouts)
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "title", Value: "Teeth Orthodontics"}, {Key: "price", Value: 200}},
			bson.D{{Key: "_id", Value: second}, {Key: "title", Value: "Cosmetic Dentistry"}, {Key: "facility", Value: bson.A{"x-ray"}}},
		))

		services, err := repo.FindAll(context.Background())
		require.NoError(mt, err)
		require.Len(mt, services, 2)
		assert.Equal(mt, first, services[0]["_id"])
		assert.Equal(mt, "Teeth Orthodontics", services[0]["title"])
		assert.Equal(mt, "Cosmetic Dentistry", services[1]["title"])
		assert.Contains(mt, services[1], "facility")

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
	})

	mt.Run("empty collection yields empty slice", func(mt *mtest.T) {
		repo := NewMongoServiceRepository(mt.DB, testTimeouts)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		services, err := repo.FindAll(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, services)
		assert.Empty(mt, services)
	})

	mt.Run("driver failure is wrapped", func(mt *mtest.T) {
		repo := NewMongoServiceRepository(mt.DB, testTimeouts)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		_, err := repo.FindAll(context.Background())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to find services")
	})
}

func TestFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("projects summary fields", func(mt *mtest.T) {
		repo := NewMongoServiceRepository(mt.DB, testTimeouts)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "title", Value: "Teeth Orthodontics"}, {Key: "img", Value: "https://i.example/1.png"}, {Key: "price", Value: 200}},
		))

		service, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, service["_id"])
		assert.Equal(mt, "Teeth Orthodontics", service["title"])

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		projection, ok := started.Command.Lookup("projection").DocumentOK()
		require.True(mt, ok, "find must carry a projection")
		for _, field := range model.ServiceSummaryFields {
			assert.Equal(mt, int32(1), projection.Lookup(field).Int32(), field)
		}

		filterID := started.Command.Lookup("filter", "_id").ObjectID()
		assert.Equal(mt, id, filterID)
	})

	mt.Run("uppercase hex id", func(mt *mtest.T) {
		repo := NewMongoServiceRepository(mt.DB, testTimeouts)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "title", Value: "Teeth Orthodontics"}},
		))

		_, err := repo.FindByID(context.Background(), strings.ToUpper(id.Hex()))
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, id, started.Command.Lookup("filter", "_id").ObjectID())
	})

	mt.Run("unknown id", func(mt *mtest.T) {
		repo := NewMongoServiceRepository(mt.DB, testTimeouts)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, serviceserrors.ErrNotFound)
	})

	mt.Run("malformed id never reaches the database", func(mt *mtest.T) {
		repo := NewMongoServiceRepository(mt.DB, testTimeouts)

		_, err := repo.FindByID(context.Background(), "not-an-id")
		assert.ErrorIs(mt, err, serviceserrors.ErrInvalidID)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}
