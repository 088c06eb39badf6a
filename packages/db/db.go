// Package db runs SQL queries whose results become the actual values of
// scenario assertions.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/expect/packages/expect"
)

// DefaultQueryTimeout bounds each query.
const DefaultQueryTimeout = 30 * time.Second

// ErrNotScalar is returned by QueryResult.Scalar for results that are not
// exactly one row of one column.
var ErrNotScalar = errors.New("query did not return exactly one value")

// QueryResult holds the rows of a query, each row an object in column order.
type QueryResult struct {
	Columns []string
	Rows    []expect.Object
}

// Value returns the rows as a list, ready to be compared.
func (r *QueryResult) Value() []any {
	rows := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row
	}
	return rows
}

// Scalar returns the single value of a one row, one column result.
func (r *QueryResult) Scalar() (any, error) {
	if len(r.Rows) != 1 || len(r.Columns) != 1 {
		return nil, fmt.Errorf("%w: got %d rows of %d columns", ErrNotScalar, len(r.Rows), len(r.Columns))
	}
	return r.Rows[0][0].Value, nil
}

// Client represents a database client
type Client struct {
	db           *sql.DB
	driverName   string
	dataSource   string
	queryTimeout time.Duration
}

// NewClient creates a new database client from a connection string
func NewClient(connectionString string) (*Client, error) {
	driver, dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Client{
		db:           db,
		driverName:   driver,
		dataSource:   dsn,
		queryTimeout: DefaultQueryTimeout,
	}, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Query executes a SQL query and returns the result
func (c *Client) Query(query string) (*QueryResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.queryTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &QueryResult{
		Columns: columns,
		Rows:    make([]expect.Object, 0),
	}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(expect.Object, len(columns))
		for i, col := range columns {
			row[i] = expect.Field{Key: col, Value: columnValue(values[i])}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

// columnValue maps driver values onto the types scenario files decode to,
// so that `is: 2` matches an INTEGER column.
func columnValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int64:
		return int(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	}
	return v
}

// parseConnectionString parses a connection string into driver and DSN
// Supported formats:
// - sqlite://path/to/db.sqlite
// - sqlite:./test.db
func parseConnectionString(connStr string) (driver string, dsn string, err error) {
	connStr = strings.TrimSpace(connStr)

	if strings.HasPrefix(connStr, "sqlite://") {
		return "sqlite3", strings.TrimPrefix(connStr, "sqlite://"), nil
	}
	if strings.HasPrefix(connStr, "sqlite:") {
		return "sqlite3", strings.TrimPrefix(connStr, "sqlite:"), nil
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid connection string: %w", err)
	}
	if u.Scheme == "" {
		return "", "", fmt.Errorf("invalid connection string %q, expected sqlite:<path>", connStr)
	}
	return "", "", fmt.Errorf("unsupported database scheme: %s", u.Scheme)
}

// Pool opens one client per connection string and reuses it. It is not
// safe for concurrent use.
type Pool struct {
	clients map[string]*Client
}

func NewPool() *Pool {
	return &Pool{clients: make(map[string]*Client)}
}

// Query runs query against the database named by connectionString.
func (p *Pool) Query(connectionString, query string) (*QueryResult, error) {
	client, ok := p.clients[connectionString]
	if !ok {
		var err error
		client, err = NewClient(connectionString)
		if err != nil {
			return nil, err
		}
		p.clients[connectionString] = client
	}
	return client.Query(query)
}

// Close closes every client, returning the first error.
func (p *Pool) Close() error {
	var first error
	for conn, client := range p.clients {
		if err := client.Close(); err != nil && first == nil {
			first = err
		}
		delete(p.clients, conn)
	}
	return first
}
