// Package database is the MySQL implementation of store.Store. Collections
// map onto the tables defined in cmd/model and records travel as column
// maps, so the view engine never sees gorm models.
package database

import (
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	gormopentracing "gorm.io/plugin/opentracing"

	"vidtube.com/cmd/model"
	"vidtube.com/pkg/store"
)

// Open connects to MySQL with SQL tracing enabled.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn),
		&gorm.Config{
			PrepareStmt:            true,
			SkipDefaultTransaction: true,
			TranslateError:         true,
			Logger:                 logger.Default.LogMode(logger.Warn),
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	if err = db.Use(gormopentracing.New()); err != nil {
		return nil, errors.Wrap(err, "install tracing plugin")
	}
	return db, nil
}

// Migrate creates or alters every table, including the unique indexes the
// reaction and subscription invariants rely on.
func Migrate(db *gorm.DB) error {
	for c, m := range model.Tables {
		if err := db.AutoMigrate(m); err != nil {
			return errors.Wrapf(err, "migrate %s", c)
		}
		hlog.Infof("migrated table %s", c)
	}
	return nil
}

type column struct {
	bool bool
	json bool
}

type table struct {
	name    string
	columns map[string]column
}

func parseTables(db *gorm.DB) (map[store.Collection]*table, error) {
	cache := &sync.Map{}
	out := make(map[store.Collection]*table, len(model.Tables))
	for c, m := range model.Tables {
		s, err := schema.Parse(m, cache, db.NamingStrategy)
		if err != nil {
			return nil, errors.Wrapf(err, "parse schema of %s", c)
		}
		t := &table{name: s.Table, columns: make(map[string]column, len(s.Fields))}
		for _, f := range s.Fields {
			if f.DBName == "" {
				continue
			}
			t.columns[f.DBName] = column{
				bool: f.DataType == schema.Bool,
				json: f.TagSettings["TYPE"] == "json",
			}
		}
		out[c] = t
	}
	return out, nil
}
