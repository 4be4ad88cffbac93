package shared

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/xo/dburl"
)

// PostgresConnectionDetails wraps the dburl parse of a postgres:// URL.
type PostgresConnectionDetails struct {
	URL     *dburl.URL
	details ConnectionDetails
}

// NewPostgresConnectionDetails builds the postgres:// URL for c and parses it with dburl
// so we get the driver name and the driver specific DSN.
// Encoding is not part of the DSN since lib/pq only speaks UTF8; it is handed to ogr2ogr instead.
func NewPostgresConnectionDetails(c ConnectionDetails) (*PostgresConnectionDetails, error) {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%v:%v", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	q := url.Values{}
	if c.SslMode != "" {
		q.Set("sslmode", c.SslMode)
	}
	u.RawQuery = q.Encode()
	parsed, err := dburl.Parse(u.String())
	if err != nil {
		return nil, errors.Wrap(err, "DSN could not be parsed")
	}
	return &PostgresConnectionDetails{URL: parsed, details: c}, nil
}

// Driver is the database/sql driver name.
func (p *PostgresConnectionDetails) Driver() string {
	return p.URL.Driver
}

// DSN is the driver specific connect string, including the password.
func (p *PostgresConnectionDetails) DSN() string {
	return p.URL.DSN
}

// String returns the URL with redacted password.
func (p *PostgresConnectionDetails) String() string {
	return p.URL.Redacted()
}

// OgrDatasource returns the ogr2ogr PG: datasource without the password.
// Supply the password to the child process via PGPASSWORD.
func (p *PostgresConnectionDetails) OgrDatasource() string {
	parts := []string{
		"host=" + p.details.Host,
		fmt.Sprintf("port=%v", p.details.Port),
		"dbname=" + p.details.Database,
		"user=" + p.details.User,
	}
	if p.details.SslMode != "" {
		parts = append(parts, "sslmode="+p.details.SslMode)
	}
	return "PG:" + strings.Join(parts, " ")
}
