package shared

import (
	"fmt"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/helper"
)

// OracleConnectionDetails holds the parts of a go-oci8 DSN and the ogr2ogr OCI datasource.
type OracleConnectionDetails struct {
	DBName   string `errorTxt:"Oracle service name" mandatory:"yes"`
	DBUser   string `errorTxt:"Oracle username" mandatory:"yes"`
	DBPass   string `errorTxt:"Oracle password" mandatory:"yes"`
	DBHost   string `errorTxt:"Oracle hostname" mandatory:"yes"`
	DBPort   string `errorTxt:"Oracle port" mandatory:"yes"`
	DBParams string // param1=value1&param2=value2
}

// NewOracleConnectionDetails converts resolved ConnectionDetails into the OCI specific struct.
func NewOracleConnectionDetails(c ConnectionDetails) *OracleConnectionDetails {
	return &OracleConnectionDetails{
		DBName:   c.Database,
		DBUser:   c.User,
		DBPass:   c.Password,
		DBHost:   c.Host,
		DBPort:   c.portString(),
		DBParams: constants.OracleConnectionParams,
	}
}

// String is the DSN with the password masked.
func (d OracleConnectionDetails) String() string {
	return d.dsn("xxxxx")
}

// DSN returns the go-oci8 connection string, oracle://user/password@//host:port/service?params.
func (d OracleConnectionDetails) DSN() (string, error) {
	if err := helper.ValidateStructIsPopulated(d); err != nil {
		return "", fmt.Errorf("unable to build Oracle connection string: %w", err)
	}
	return d.dsn(d.DBPass), nil
}

func (d OracleConnectionDetails) dsn(password string) string {
	s := fmt.Sprintf("oracle://%v/%v@//%v:%v/%v", d.DBUser, password, d.DBHost, d.DBPort, d.DBName)
	if d.DBParams != "" {
		s += "?" + d.DBParams
	}
	return s
}

// OgrDatasource returns the ogr2ogr OCI datasource string, OCI:user/password@host:port/service.
func (d OracleConnectionDetails) OgrDatasource() string {
	return fmt.Sprintf("OCI:%v/%v@%v:%v/%v", d.DBUser, d.DBPass, d.DBHost, d.DBPort, d.DBName)
}
