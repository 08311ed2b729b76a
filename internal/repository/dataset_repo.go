package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/frontier/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetRepository handles database operations for datasets
type DatasetRepository struct {
	pool *pgxpool.Pool
}

// NewDatasetRepository creates a new DatasetRepository
func NewDatasetRepository(pool *pgxpool.Pool) *DatasetRepository {
	return &DatasetRepository{pool: pool}
}

// GetByName retrieves a dataset with its asset statistics and covariance
func (r *DatasetRepository) GetByName(ctx context.Context, name string) (*models.Dataset, error) {
	query := `
		SELECT id, name, description, risk_free_rate, updated
		FROM dim_dataset
		WHERE name = $1
	`
	var (
		id      int64
		updated time.Time
	)
	ds := &models.Dataset{Source: models.DatasetSourceStore}
	err := r.pool.QueryRow(ctx, query, name).Scan(&id, &ds.Name, &ds.Description, &ds.RiskFreeRate, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	ds.UpdatedAt = &updated

	if err := r.loadAssets(ctx, id, ds); err != nil {
		return nil, err
	}
	if err := r.loadCovariance(ctx, id, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *DatasetRepository) loadAssets(ctx context.Context, id int64, ds *models.Dataset) error {
	query := `
		SELECT asset, volatility, expected_return
		FROM fact_asset_stat
		WHERE dataset_id = $1
		ORDER BY position ASC
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to query asset statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			asset    string
			vol, ret float64
		)
		if err := rows.Scan(&asset, &vol, &ret); err != nil {
			return fmt.Errorf("failed to scan asset statistics: %w", err)
		}
		ds.Assets = append(ds.Assets, asset)
		ds.Volatilities = append(ds.Volatilities, vol)
		ds.ExpectedReturns = append(ds.ExpectedReturns, ret)
	}
	return rows.Err()
}

func (r *DatasetRepository) loadCovariance(ctx context.Context, id int64, ds *models.Dataset) error {
	n := len(ds.Assets)
	ds.Covariance = make([][]float64, n)
	for i := range ds.Covariance {
		ds.Covariance[i] = make([]float64, n)
	}

	query := `
		SELECT row_idx, col_idx, value
		FROM fact_covariance
		WHERE dataset_id = $1
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to query covariance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			i, j  int
			value float64
		)
		if err := rows.Scan(&i, &j, &value); err != nil {
			return fmt.Errorf("failed to scan covariance: %w", err)
		}
		if i < 0 || j < 0 || i >= n || j >= n {
			return fmt.Errorf("covariance entry (%d, %d) outside %d assets", i, j, n)
		}
		ds.Covariance[i][j] = value
	}
	return rows.Err()
}

// List retrieves all stored datasets (metadata only)
func (r *DatasetRepository) List(ctx context.Context) ([]models.DatasetListItem, error) {
	query := `
		SELECT d.name, d.description, COUNT(a.position)
		FROM dim_dataset d
		LEFT JOIN fact_asset_stat a ON a.dataset_id = d.id
		GROUP BY d.id, d.name, d.description
		ORDER BY d.name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	var items []models.DatasetListItem
	for rows.Next() {
		item := models.DatasetListItem{Source: models.DatasetSourceStore}
		if err := rows.Scan(&item.Name, &item.Description, &item.Assets); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Save creates or replaces a dataset. Only the strict upper triangle of the
// covariance matrix is stored.
func (r *DatasetRepository) Save(ctx context.Context, ds *models.Dataset) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	var updated time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO dim_dataset (name, description, risk_free_rate, updated)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE
		SET description = EXCLUDED.description, risk_free_rate = EXCLUDED.risk_free_rate, updated = NOW()
		RETURNING id, updated
	`, ds.Name, ds.Description, ds.RiskFreeRate).Scan(&id, &updated)
	if err != nil {
		return fmt.Errorf("failed to upsert dataset: %w", err)
	}

	if err := r.replaceStatistics(ctx, tx, id, ds); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	ds.Source = models.DatasetSourceStore
	ds.UpdatedAt = &updated
	return nil
}

func (r *DatasetRepository) replaceStatistics(ctx context.Context, tx pgx.Tx, id int64, ds *models.Dataset) error {
	if _, err := tx.Exec(ctx, `DELETE FROM fact_asset_stat WHERE dataset_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear asset statistics: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM fact_covariance WHERE dataset_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear covariance: %w", err)
	}

	batch := &pgx.Batch{}
	for i, asset := range ds.Assets {
		batch.Queue(`
			INSERT INTO fact_asset_stat (dataset_id, position, asset, volatility, expected_return)
			VALUES ($1, $2, $3, $4, $5)
		`, id, i, asset, ds.Volatilities[i], ds.ExpectedReturns[i])
	}
	for i := range ds.Covariance {
		for j := i + 1; j < len(ds.Covariance[i]); j++ {
			batch.Queue(`
				INSERT INTO fact_covariance (dataset_id, row_idx, col_idx, value)
				VALUES ($1, $2, $3, $4)
			`, id, i, j, ds.Covariance[i][j])
		}
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert dataset statistics: %w", err)
		}
	}
	return nil
}
