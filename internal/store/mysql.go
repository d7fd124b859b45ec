package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/mini-crm/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mysqlDuplicateEntry is the MySQL error number for a violated unique key.
const mysqlDuplicateEntry = 1062

// contactColumns are the columns mapped onto contactRow. The seq column only defines insertion
// order and is never selected.
const contactColumns = `id, firstname, lastname, gender, email, phone, bio,
	line_one, line_two, city, state, country, zip_code, created_at`

// MySQLConfig holds the connection parameters of the MySQL database.
type MySQLConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

// DSN returns the data source name. clientFoundRows makes an UPDATE report matched rather than
// changed rows, so saving a contact without modifications is not mistaken for a missing one.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Database)
}

// OpenMySQL initializes and returns a database connection.
func OpenMySQL(cfg MySQLConfig) (*sql.DB, error) {
	return sql.Open("mysql", cfg.DSN())
}

// contactRow is the flat table representation of a contact.
type contactRow struct {
	Id        string    `db:"id"`
	FirstName string    `db:"firstname"`
	LastName  string    `db:"lastname"`
	Gender    string    `db:"gender"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Bio       string    `db:"bio"`
	LineOne   string    `db:"line_one"`
	LineTwo   string    `db:"line_two"`
	City      string    `db:"city"`
	State     string    `db:"state"`
	Country   string    `db:"country"`
	ZipCode   string    `db:"zip_code"`
	CreatedAt time.Time `db:"created_at"`
}

func toRow(c *model.Contact) contactRow {
	return contactRow{
		Id:        c.Id.Hex(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Gender:    c.Gender,
		Email:     c.Email,
		Phone:     c.Phone,
		Bio:       c.Bio,
		LineOne:   c.Address.LineOne,
		LineTwo:   c.Address.LineTwo,
		City:      c.Address.City,
		State:     c.Address.State,
		Country:   c.Address.Country,
		ZipCode:   c.Address.ZipCode,
		CreatedAt: c.CreatedAt,
	}
}

func (r contactRow) toContact() (model.Contact, error) {
	id, err := primitive.ObjectIDFromHex(r.Id)
	if err != nil {
		return model.Contact{}, fmt.Errorf("stored id %q: %w", r.Id, err)
	}
	return model.Contact{
		Id:        id,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		Email:     r.Email,
		Phone:     r.Phone,
		Bio:       r.Bio,
		Address: model.Address{
			LineOne: r.LineOne,
			LineTwo: r.LineTwo,
			City:    r.City,
			State:   r.State,
			Country: r.Country,
			ZipCode: r.ZipCode,
		},
		CreatedAt: r.CreatedAt.UTC(),
	}, nil
}

// MySQLStore keeps contacts in the contacts table of a MySQL database.
type MySQLStore struct {
	db *sqlx.DB

	// insert is a prepared statement for creating a contact.
	insert *sqlx.NamedStmt

	// update is a prepared statement for overwriting all mutable columns of a contact.
	update *sqlx.NamedStmt

	// selectAll is a prepared statement for selecting all contacts in insertion order.
	selectAll *sqlx.Stmt

	// selectWhereId is a prepared statement for selecting contacts with a given id.
	selectWhereId *sqlx.Stmt

	// deleteWhereId is a prepared statement for deleting a contact with a given id.
	deleteWhereId *sqlx.Stmt
}

// NewMySQLStore wraps the sql database with sqlx and prepares all statements. The database can be
// a real database for production use or a mock database within unit tests.
func NewMySQLStore(sqlDB *sql.DB) (*MySQLStore, error) {
	var err error
	s := &MySQLStore{db: sqlx.NewDb(sqlDB, "mysql")}

	// Prepared statements offer a significant speed increase if executed many times.
	s.insert, err = s.db.PrepareNamed(`
		INSERT INTO contacts (id, firstname, lastname, gender, email, phone, bio,
			line_one, line_two, city, state, country, zip_code, created_at)
		VALUES (:id, :firstname, :lastname, :gender, :email, :phone, :bio,
			:line_one, :line_two, :city, :state, :country, :zip_code, :created_at)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	s.update, err = s.db.PrepareNamed(`
		UPDATE contacts SET firstname=:firstname, lastname=:lastname, gender=:gender,
			email=:email, phone=:phone, bio=:bio, line_one=:line_one, line_two=:line_two,
			city=:city, state=:state, country=:country, zip_code=:zip_code
		WHERE id=:id
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare update: %w", err)
	}
	s.selectAll, err = s.db.Preparex(`
		SELECT ` + contactColumns + ` FROM contacts ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select all: %w", err)
	}
	s.selectWhereId, err = s.db.Preparex(`
		SELECT ` + contactColumns + ` FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select by id: %w", err)
	}
	s.deleteWhereId, err = s.db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare delete: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements and the database handle.
func (s *MySQLStore) Close() error {
	for _, stmt := range []interface{ Close() error }{
		s.insert, s.update, s.selectAll, s.selectWhereId, s.deleteWhereId,
	} {
		_ = stmt.Close()
	}
	return s.db.Close()
}

// List returns all contacts in insertion order.
func (s *MySQLStore) List(ctx context.Context) ([]model.Contact, error) {
	var rows []contactRow
	if err := s.selectAll.SelectContext(ctx, &rows); err != nil {
		return nil, err
	}
	contacts := make([]model.Contact, 0, len(rows))
	for _, row := range rows {
		contact, err := row.toContact()
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

// Insert stores a new contact. The contact must already carry its id.
func (s *MySQLStore) Insert(ctx context.Context, contact *model.Contact) error {
	_, err := s.insert.ExecContext(ctx, toRow(contact))
	return s.translate(err, contact)
}

// FindByID returns the contact with the id or ErrNotFound.
func (s *MySQLStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Contact, error) {
	var rows []contactRow
	if err := s.selectWhereId.SelectContext(ctx, &rows, id.Hex()); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	contact, err := rows[0].toContact()
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Replace overwrites the stored contact that has the same id. The creation time is never
// updated.
func (s *MySQLStore) Replace(ctx context.Context, contact *model.Contact) error {
	result, err := s.update.ExecContext(ctx, toRow(contact))
	if err != nil {
		return s.translate(err, contact)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the contact with the id and returns the number of removed rows.
func (s *MySQLStore) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := s.deleteWhereId.ExecContext(ctx, id.Hex())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// translate maps a unique key violation to a *DuplicateKeyError. The email column carries the
// only unique key besides the primary key.
func (s *MySQLStore) translate(err error, contact *model.Contact) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return &DuplicateKeyError{Field: "email", Value: contact.Email, Err: err}
	}
	return err
}
