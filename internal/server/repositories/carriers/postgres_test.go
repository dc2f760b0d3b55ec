package carriers

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/freightdesk/presence/internal/common"
	"github.com/freightdesk/presence/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGet_ReturnsProfile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, phone, vehicle_plate, class, visible FROM carriers`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "vehicle_plate", "class", "visible"}).
			AddRow("c1", "Ada", "+100200", "34 AB 123", "freelance", true))

	c, err := repo.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Ada" || !c.Visible {
		t.Fatalf("unexpected carrier: %+v", c)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, phone, vehicle_plate, class, visible FROM carriers`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestUpsert_Executes(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO carriers .* ON CONFLICT \(id\)`).
		WithArgs("c1", "Ada", "+100200", "34 AB 123", "freelance", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.Carrier{
		ID: "c1", Name: "Ada", Phone: "+100200", VehiclePlate: "34 AB 123", Class: "freelance",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetVisible_UnknownCarrier(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE carriers SET visible`).
		WithArgs("nope", true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetVisible(context.Background(), "nope", true)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestVisible_ReadsFlag(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT visible FROM carriers`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"visible"}).AddRow(true))

	visible, err := repo.Visible(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !visible {
		t.Fatal("want visible = true")
	}
}
