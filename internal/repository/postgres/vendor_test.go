package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShaikhZaamir/vendor-portal/internal/domain"
	apperrors "github.com/ShaikhZaamir/vendor-portal/pkg/errors"
)

func newVendorTestFixture(t *testing.T) (*VendorRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewVendorRepository(mock), mock
}

func sampleVendor() *domain.Vendor {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	desc := "Screen printing and signage"
	return &domain.Vendor{
		ID:           "22222222-2222-2222-2222-222222222222",
		Name:         "Acme Prints",
		OwnerName:    "Meera Shah",
		Email:        "owner@acme.test",
		PasswordHash: "$2a$12$hash",
		Contact:      "+91 98200 00000",
		Category:     "Printing",
		City:         "Pune",
		Description:  &desc,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// vendorRow renders average_rating as text, the form a numeric column
// reaches a database/sql scanner in.
func vendorRow(v *domain.Vendor, rating string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "owner_name", "email", "password_hash", "contact", "category", "city",
		"description", "logo_url", "average_rating", "created_at", "updated_at",
	}).AddRow(
		v.ID, v.Name, v.OwnerName, v.Email, v.PasswordHash, v.Contact, v.Category, v.City,
		v.Description, v.LogoURL, rating, v.CreatedAt, v.UpdatedAt,
	)
}

func TestVendorRepository_Create(t *testing.T) {
	repo, mock := newVendorTestFixture(t)
	v := sampleVendor()

	mock.ExpectExec("INSERT INTO vendors").
		WithArgs(v.ID, v.Name, v.OwnerName, v.Email, v.PasswordHash, v.Contact, v.Category, v.City,
			v.Description, v.LogoURL, v.CreatedAt, v.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), v))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newVendorTestFixture(t)
	v := sampleVendor()

	mock.ExpectExec("INSERT INTO vendors").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "vendors_email_key"})

	err := repo.Create(context.Background(), v)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestVendorRepository_GetByID(t *testing.T) {
	repo, mock := newVendorTestFixture(t)
	v := sampleVendor()

	mock.ExpectQuery("FROM vendors WHERE id = \\$1").
		WithArgs(v.ID).
		WillReturnRows(vendorRow(v, "4.50"))

	got, err := repo.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Prints", got.Name)
	assert.Equal(t, "4.50", got.AverageRating.String())
	assert.Equal(t, "$2a$12$hash", got.PasswordHash)
	assert.Nil(t, got.LogoURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newVendorTestFixture(t)

	mock.ExpectQuery("FROM vendors WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVendorRepository_GetByEmail(t *testing.T) {
	repo, mock := newVendorTestFixture(t)
	v := sampleVendor()

	mock.ExpectQuery("FROM vendors WHERE email = \\$1").
		WithArgs(v.Email).
		WillReturnRows(vendorRow(v, "0.00"))

	got, err := repo.GetByEmail(context.Background(), v.Email)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, "0.00", got.AverageRating.String())
}

func TestVendorRepository_Exists(t *testing.T) {
	repo, mock := newVendorTestFixture(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("v-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "v-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVendorRepository_UpdateProfile(t *testing.T) {
	repo, mock := newVendorTestFixture(t)
	v := sampleVendor()

	mock.ExpectExec("UPDATE vendors").
		WithArgs(v.ID, v.Name, v.OwnerName, v.Contact, v.Category, v.City, v.Description, v.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.UpdateProfile(context.Background(), v))

	mock.ExpectExec("UPDATE vendors").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.UpdateProfile(context.Background(), v), apperrors.ErrNotFound)
}

func TestVendorRepository_UpdateLogo(t *testing.T) {
	repo, mock := newVendorTestFixture(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE vendors SET logo_url = $2")).
		WithArgs("v-1", "https://cdn.test/logo.png").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateLogo(context.Background(), "v-1", "https://cdn.test/logo.png"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVendorsQuery(t *testing.T) {
	tests := []struct {
		name        string
		filter      domain.VendorFilter
		contains    []string
		notContains []string
		args        []any
	}{
		{
			name:        "no filter is newest first",
			filter:      domain.VendorFilter{},
			contains:    []string{`FROM "vendors"`, `ORDER BY "created_at" DESC`},
			notContains: []string{"WHERE"},
			args:        []any{},
		},
		{
			name:     "search escapes wildcards",
			filter:   domain.VendorFilter{Search: " 50%_off "},
			contains: []string{`"name" ILIKE $1`},
			args:     []any{`%50\%\_off%`},
		},
		{
			name:     "category and rating sort",
			filter:   domain.VendorFilter{Search: "acme", Category: "Printing", Sort: domain.SortRatingDesc},
			contains: []string{`"name" ILIKE $1`, `"category" = $2`, `ORDER BY "average_rating" DESC`},
			args:     []any{"%acme%", "Printing"},
		},
		{
			name:     "ascending rating",
			filter:   domain.VendorFilter{Sort: domain.SortRatingAsc},
			contains: []string{`ORDER BY "average_rating" ASC`},
			args:     []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := listVendorsQuery(tt.filter)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, query, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, query, s)
			}
			if len(tt.args) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestVendorRepository_List(t *testing.T) {
	repo, mock := newVendorTestFixture(t)
	created := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM "vendors"`).
		WithArgs("%acme%").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "city", "logo_url", "average_rating", "created_at"}).
			AddRow("v-1", "Acme Prints", "Printing", "Pune", nil, "4.67", created))

	vendors, err := repo.List(context.Background(), domain.VendorFilter{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "4.67", vendors[0].AverageRating.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_ListStats(t *testing.T) {
	repo, mock := newVendorTestFixture(t)
	created := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "name", "category", "city", "logo_url", "average_rating", "created_at", "review_count"}

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY v.id ORDER BY v.name ASC")).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("v-1", "Acme Prints", "Printing", "Pune", nil, "4.50", created, int64(2)).
			AddRow("v-2", "Zen Florals", "Flowers", "Goa", nil, "0.00", created, int64(0)))

	stats, err := repo.ListStats(context.Background(), domain.AdminOrderName)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(2), stats[0].ReviewCount)
	assert.Equal(t, int64(0), stats[1].ReviewCount)
	assert.Equal(t, "4.50", stats[0].AverageRating.String())
	assert.Equal(t, "0.00", stats[1].AverageRating.String())

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY v.id ORDER BY v.created_at DESC")).
		WillReturnRows(pgxmock.NewRows(cols))
	stats, err = repo.ListStats(context.Background(), domain.AdminOrderCreated)
	require.NoError(t, err)
	assert.Empty(t, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b\%c\_d`, escapeLike(`a\b%c_d`))
}
