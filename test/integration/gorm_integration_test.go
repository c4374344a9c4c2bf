package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/repository/specification"
	"rebuttal-agent-be/internal/repository/unitofwork"
	"rebuttal-agent-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SessionTurnRepository())
	assert.NotNil(t, uow.PaperChunkRepository())
	assert.NotNil(t, uow.AgentRunRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Session Turn Repository", func(t *testing.T) {
		count, err := uow.SessionTurnRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("SessionTurn count: %d", count)
	})

	t.Run("Check Paper Chunk Repository", func(t *testing.T) {
		count, err := uow.PaperChunkRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("PaperChunk count: %d", count)
	})

	t.Run("Session Turn Round Trip", func(t *testing.T) {
		ctx := context.Background()
		sessionID := "it-" + uuid.New().String()

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		first := &entity.SessionTurn{
			SessionId: sessionID,
			Role:      "user",
			Content:   "Summarize my paper",
		}
		err = uow.SessionTurnRepository().Create(ctx, first)
		assert.NoError(t, err)

		second := &entity.SessionTurn{
			SessionId: sessionID,
			Role:      "assistant",
			Content:   "Here is a summary.",
		}
		err = uow.SessionTurnRepository().Create(ctx, second)
		assert.NoError(t, err)

		turns, err := uow.SessionTurnRepository().FindAll(ctx,
			specification.BySessionID{SessionID: sessionID},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		assert.NoError(t, err)
		assert.Len(t, turns, 2)
		if len(turns) == 2 {
			assert.Equal(t, "user", turns[0].Role)
			assert.Equal(t, "Summarize my paper", turns[0].Content)
			assert.Equal(t, "assistant", turns[1].Role)
		}
	})

	t.Run("Paper Chunk Batch", func(t *testing.T) {
		ctx := context.Background()
		sessionID := "it-" + uuid.New().String()

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		vector := make([]float32, 768)
		vector[0] = 1
		chunks := []*entity.PaperChunk{
			{SessionId: sessionID, ChunkIndex: 0, Document: "chunk zero", Embedding: vector},
			{SessionId: sessionID, ChunkIndex: 1, Document: "chunk one", Embedding: vector},
		}
		err = uow.PaperChunkRepository().CreateBatch(ctx, chunks)
		assert.NoError(t, err)

		rows, err := uow.PaperChunkRepository().FindAll(ctx,
			specification.BySessionID{SessionID: sessionID},
			specification.OrderBy{Field: "chunk_index", Desc: false},
		)
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
