package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	"github.com/ShaikhZaamir/vendor-portal/pkg/database"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
)

var dialect = goqu.Dialect("postgres")

const vendorColumns = `id, name, owner_name, email, password_hash, contact, category, city,
		       description, logo_url, average_rating, created_at, updated_at`

// VendorRepository implements vendor persistence operations using PostgreSQL.
type VendorRepository struct {
	pool database.DBTX
}

// NewVendorRepository creates a new PostgreSQL-backed vendor repository.
func NewVendorRepository(pool database.DBTX) *VendorRepository {
	return &VendorRepository{pool: pool}
}

// Create inserts a new vendor.
func (r *VendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	query := `
		INSERT INTO vendors (id, name, owner_name, email, password_hash, contact, category, city,
		                     description, logo_url, average_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		v.ID,
		v.Name,
		v.OwnerName,
		v.Email,
		v.PasswordHash,
		v.Contact,
		v.Category,
		v.City,
		v.Description,
		v.LogoURL,
		v.CreatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("vendor", "email", v.Email)
		}
		return fmt.Errorf("insert vendor: %w", err)
	}

	return nil
}

// GetByID retrieves a vendor by its identifier.
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`

	v, err := scanVendor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("vendor", id)
		}
		return nil, fmt.Errorf("get vendor by id: %w", err)
	}
	return v, nil
}

// GetByEmail retrieves a vendor by email.
func (r *VendorRepository) GetByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE email = $1`

	v, err := scanVendor(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("vendor", email)
		}
		return nil, fmt.Errorf("get vendor by email: %w", err)
	}
	return v, nil
}

// Exists reports whether the vendor exists.
func (r *VendorRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vendors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check vendor exists: %w", err)
	}
	return exists, nil
}

// UpdateProfile writes the editable profile fields.
func (r *VendorRepository) UpdateProfile(ctx context.Context, v *domain.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $2, owner_name = $3, contact = $4, category = $5, city = $6,
		    description = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		v.ID,
		v.Name,
		v.OwnerName,
		v.Contact,
		v.Category,
		v.City,
		v.Description,
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vendor profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("vendor", v.ID)
	}
	return nil
}

// UpdateLogo replaces the logo URL.
func (r *VendorRepository) UpdateLogo(ctx context.Context, id, logoURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vendors SET logo_url = $2, updated_at = NOW() WHERE id = $1`,
		id, logoURL,
	)
	if err != nil {
		return fmt.Errorf("update vendor logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("vendor", id)
	}
	return nil
}

// List returns directory summaries. The query is assembled with goqu so
// every filter value travels as a bind parameter.
func (r *VendorRepository) List(ctx context.Context, filter domain.VendorFilter) (_ []domain.VendorSummary, err error) {
	query, args, err := listVendorsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build vendor listing query: %w", err)
	}

	ctx, end := database.TraceQuery(ctx, "ListVendors", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []domain.VendorSummary{}
	for rows.Next() {
		var s domain.VendorSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.City, &s.LogoURL, &s.AverageRating, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor summary: %w", err)
		}
		vendors = append(vendors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor rows: %w", err)
	}

	return vendors, nil
}

func listVendorsQuery(filter domain.VendorFilter) (string, []any, error) {
	ds := dialect.From("vendors").
		Prepared(true).
		Select("id", "name", "category", "city", "logo_url", "average_rating", "created_at")

	if search := strings.TrimSpace(filter.Search); search != "" {
		ds = ds.Where(goqu.C("name").ILike("%" + escapeLike(search) + "%"))
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		ds = ds.Where(goqu.C("category").Eq(category))
	}

	switch filter.Sort {
	case domain.SortRatingDesc:
		ds = ds.Order(goqu.C("average_rating").Desc(), goqu.C("created_at").Desc())
	case domain.SortRatingAsc:
		ds = ds.Order(goqu.C("average_rating").Asc(), goqu.C("created_at").Desc())
	default:
		ds = ds.Order(goqu.C("created_at").Desc())
	}

	return ds.ToSQL()
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

const (
	statsQueryPrefix = `
		SELECT v.id, v.name, v.category, v.city, v.logo_url, v.average_rating, v.created_at,
		       COUNT(r.id) AS review_count
		FROM vendors v
		LEFT JOIN reviews r ON r.vendor_id = v.id
		GROUP BY v.id`

	statsOrderCreated = ` ORDER BY v.created_at DESC, v.id`
	statsOrderName    = ` ORDER BY v.name ASC, v.id`
)

// ListStats returns every vendor with its review count.
func (r *VendorRepository) ListStats(ctx context.Context, order domain.AdminOrder) ([]domain.VendorStats, error) {
	query := statsQueryPrefix + statsOrderCreated
	if order == domain.AdminOrderName {
		query = statsQueryPrefix + statsOrderName
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vendor stats: %w", err)
	}
	defer rows.Close()

	stats := []domain.VendorStats{}
	for rows.Next() {
		var s domain.VendorStats
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Category,
			&s.City,
			&s.LogoURL,
			&s.AverageRating,
			&s.CreatedAt,
			&s.ReviewCount,
		); err != nil {
			return nil, fmt.Errorf("scan vendor stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor stats rows: %w", err)
	}

	return stats, nil
}

func scanVendor(row pgx.Row) (*domain.Vendor, error) {
	var v domain.Vendor
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.OwnerName,
		&v.Email,
		&v.PasswordHash,
		&v.Contact,
		&v.Category,
		&v.City,
		&v.Description,
		&v.LogoURL,
		&v.AverageRating,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
