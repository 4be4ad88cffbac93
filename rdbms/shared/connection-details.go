package shared

import (
	"fmt"
	"strconv"

	"github.com/abys/geosync/helper"
)

// ConnectionDetails holds the resolved parameters for one database.
// Values are decoded from the environment by package config and are not changed afterwards.
type ConnectionDetails struct {
	Type     string `mapstructure:"type" json:"type" errorTxt:"database type" mandatory:"yes"`
	Host     string `mapstructure:"host" json:"host" errorTxt:"host" mandatory:"yes"`
	Port     int    `mapstructure:"port" json:"port" errorTxt:"port" mandatory:"yes"`
	Database string `mapstructure:"database" json:"database" errorTxt:"database or service name" mandatory:"yes"`
	User     string `mapstructure:"user" json:"user" errorTxt:"user" mandatory:"yes"`
	Password string `mapstructure:"password" json:"-"`
	// Encoding is PGCLIENTENCODING for PostgreSQL and NLS_LANG for Oracle.
	Encoding string `mapstructure:"encoding" json:"encoding"`
	SslMode  string `mapstructure:"sslmode" json:"sslmode,omitempty"`
}

// String redacts passwords and pretty-prints the contents of ConnectionDetails.
func (c ConnectionDetails) String() string {
	return fmt.Sprintf("%v://%v:xxxxx@%v:%v/%v", c.Type, c.User, c.Host, c.Port, c.Database)
}

// Validate returns an error naming every mandatory value that is missing.
func (c ConnectionDetails) Validate() error {
	if err := helper.ValidateStructIsPopulated(c); err != nil {
		return fmt.Errorf("%v connection: %w", c.Type, err)
	}
	return nil
}

func (c ConnectionDetails) portString() string {
	return strconv.Itoa(c.Port)
}
