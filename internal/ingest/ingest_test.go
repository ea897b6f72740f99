package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracker-spend/spendtrack/internal/categorize"
	"github.com/tracker-spend/spendtrack/internal/importer"
	"github.com/tracker-spend/spendtrack/internal/ingest"
	mock_ingest "github.com/tracker-spend/spendtrack/internal/ingest/mocks"
	"github.com/tracker-spend/spendtrack/internal/model"
)

func txn(ext, desc string) model.Transaction {
	return model.Transaction{
		ExternalID:  ext,
		Source:      model.SourceOpenBanking,
		Date:        time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      decimal.NewFromInt(10),
		Type:        model.TypeExpense,
		Category:    categorize.Other,
	}
}

func TestImport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dbErr := errors.New("disk full")

	tests := []struct {
		name    string
		txns    []model.Transaction
		setup   func(m *mock_ingest.MockStore)
		want    ingest.Summary
		wantErr error
	}{
		{
			name: "inserts new and skips existing",
			txns: []model.Transaction{txn("a", "first"), txn("b", "second")},
			setup: func(m *mock_ingest.MockStore) {
				m.EXPECT().ExistsByExternalID(gomock.Any(), "a").Return(false, nil)
				m.EXPECT().Insert(gomock.Any(), txn("a", "first")).Return("2025-01-001", nil)
				m.EXPECT().ExistsByExternalID(gomock.Any(), "b").Return(true, nil)
			},
			want: ingest.Summary{Total: 2, Inserted: 1, Duplicates: 1, IDs: []string{"2025-01-001"}},
		},
		{
			name: "unique constraint race counts as duplicate",
			txns: []model.Transaction{txn("a", "first")},
			setup: func(m *mock_ingest.MockStore) {
				m.EXPECT().ExistsByExternalID(gomock.Any(), "a").Return(false, nil)
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("", ingest.ErrDuplicate)
			},
			want: ingest.Summary{Total: 1, Duplicates: 1},
		},
		{
			name: "no external id skips the lookup",
			txns: []model.Transaction{txn("", "file row"), txn("", "file row")},
			setup: func(m *mock_ingest.MockStore) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("2025-01-001", nil)
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("2025-01-002", nil)
			},
			want: ingest.Summary{Total: 2, Inserted: 2, IDs: []string{"2025-01-001", "2025-01-002"}},
		},
		{
			name: "store failure stops the batch",
			txns: []model.Transaction{txn("a", "first"), txn("b", "second"), txn("c", "third")},
			setup: func(m *mock_ingest.MockStore) {
				m.EXPECT().ExistsByExternalID(gomock.Any(), "a").Return(false, nil)
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("2025-01-001", nil)
				m.EXPECT().ExistsByExternalID(gomock.Any(), "b").Return(false, nil)
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("", dbErr)
			},
			want:    ingest.Summary{Total: 3, Inserted: 1, IDs: []string{"2025-01-001"}},
			wantErr: dbErr,
		},
		{
			name: "lookup failure stops the batch",
			txns: []model.Transaction{txn("a", "first")},
			setup: func(m *mock_ingest.MockStore) {
				m.EXPECT().ExistsByExternalID(gomock.Any(), "a").Return(false, dbErr)
			},
			want:    ingest.Summary{Total: 1},
			wantErr: dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock_ingest.NewMockStore(ctrl)
			tt.setup(store)

			got, err := ingest.Import(context.Background(), store, tt.txns)
			assert.Equal(t, tt.want, got)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			var perr *ingest.PersistenceError
			require.ErrorAs(t, err, &perr)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, perr.Summary)
		})
	}
}

func TestBatchID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ingest.BatchID(ctx))
	assert.Equal(t, "b-1", ingest.BatchID(ingest.WithBatchID(ctx, "b-1")))
}

func testPipeline() *importer.Pipeline {
	return importer.NewPipeline(categorize.Default(), zerolog.Nop())
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestImportFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_ingest.NewMockStore(ctrl)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("id", nil).Times(4)

	res, err := ingest.ImportFile(context.Background(), testPipeline(), store, "../../testdata/bank_layout_b.csv", importer.Options{}, false)
	require.NoError(t, err)
	assert.Equal(t, model.FormatBankLayoutB, res.Parse.Format)
	assert.False(t, res.Report.Valid)
	assert.Equal(t, 1, res.Report.Stats.ErrorsCount)
	assert.Equal(t, 4, res.Summary.Inserted)
}

func TestImportFile_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_ingest.NewMockStore(ctrl)

	res, err := ingest.ImportFile(context.Background(), testPipeline(), store, "../../testdata/standard.csv", importer.Options{}, true)
	require.NoError(t, err)
	assert.True(t, res.Report.Valid)
	assert.Equal(t, ingest.Summary{Total: 6}, res.Summary)
}

func TestImportFile_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mock_ingest.NewMockStore(ctrl)

	tests := []struct {
		name       string
		file       string
		data       []byte
		wantReason string
		wantDetail bool
		wantIs     error
	}{
		{
			name:       "empty file",
			file:       "empty.csv",
			data:       []byte{},
			wantReason: "file is empty",
			wantIs:     importer.ErrEmptyFile,
		},
		{
			name:       "undecodable",
			file:       "bad.csv",
			data:       []byte("Date,Amount\n2025-01-01,\x81\x8d\x8f\x90\x9d\xff\xfe\n"),
			wantReason: "unsupported text encoding",
		},
		{
			name:       "no valid rows",
			file:       "zero.csv",
			data:       []byte("Date,Description,Amount\n2025-01-01,Coffee,0\n,Missing date,5\n"),
			wantReason: "no transactions found",
			wantDetail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data)
			_, err := ingest.ImportFile(context.Background(), testPipeline(), store, path, importer.Options{}, false)

			var ferr *ingest.FileError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.wantReason, ferr.Reason)
			if tt.wantDetail {
				assert.Len(t, ferr.Details, 2)
				assert.Contains(t, ferr.Error(), "row 1: missing_or_zero_amount")
			}
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
