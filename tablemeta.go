package binlog

import (
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gopkg.in/src-d/go-vitess.v0/vt/sqlparser"
)

// ColumnMeta is the schema-enrichment counterpart to rbr.go's Column:
// where Column carries what the table-map event itself says (wire type,
// meta, charset id), ColumnMeta carries what SHOW CREATE TABLE adds —
// the declared name, SQL type text, and key-ness — for a sink that
// wants human-readable output instead of col_1, col_2, ....
type ColumnMeta struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
}

// TableMeta is one cache entry: the enriched column list for a single
// "schema.table", keyed and invalidated per §4.H.
type TableMeta struct {
	Schema  string
	Table   string
	Columns []ColumnMeta
}

// SQLQueryExecutor is the side-connection collaborator §6 names:
// issue a query, get a result back. database/sql + go-sql-driver/mysql
// satisfies it directly for the one query this package ever issues
// (SHOW CREATE TABLE) — no ORM, no ad-hoc row scanning framework, just
// the driver the rest of the corpus already reaches for (teacher's own
// go.mod, zhukovaskychina-xmysql-server).
type SQLQueryExecutor interface {
	ShowCreateTable(schema, table string) (ddl string, err error)
}

// sqlExecutor is the production SQLQueryExecutor, a pooled
// *sql.DB dedicated to schema enrichment — never the replication
// socket, which stays hand-rolled (see SPEC_FULL.md's DOMAIN STACK).
type sqlExecutor struct {
	db *sql.DB
}

// newSQLExecutor opens (but does not yet connect; database/sql pools
// lazily) a side connection to dsn.
func newSQLExecutor(dsn string) (*sqlExecutor, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open table-meta side connection")
	}
	return &sqlExecutor{db: db}, nil
}

func (e *sqlExecutor) ShowCreateTable(schema, table string) (string, error) {
	row := e.db.QueryRow(fmt.Sprintf("SHOW CREATE TABLE `%s`.`%s`", schema, table))
	var name, ddl string
	if err := row.Scan(&name, &ddl); err != nil {
		return "", errors.Wrapf(err, "SHOW CREATE TABLE %s.%s", schema, table)
	}
	return ddl, nil
}

func (e *sqlExecutor) Close() error { return e.db.Close() }

// DDLParser is the other side-connection collaborator §6 names: turn
// DDL text into a column list. gopkg.in/src-d/go-vitess.v0's sqlparser
// is a full MySQL-dialect SQL parser, the same one dolthub-go-mysql-server
// depends on — reused here rather than hand-rolling a CREATE TABLE
// grammar.
type DDLParser interface {
	Parse(ddl string) (*TableMeta, error)
}

type vitessDDLParser struct{}

func (vitessDDLParser) Parse(ddl string) (*TableMeta, error) {
	stmt, err := sqlparser.Parse(ddl)
	if err != nil {
		return nil, errors.Wrap(err, "parse CREATE TABLE DDL")
	}
	create, ok := stmt.(*sqlparser.DDL)
	if !ok || create.TableSpec == nil {
		return nil, errors.New("binlog: DDL statement is not a CREATE TABLE")
	}

	meta := &TableMeta{Table: create.NewName.Name.String()}
	if !create.NewName.Qualifier.IsEmpty() {
		meta.Schema = create.NewName.Qualifier.String()
	}

	primaryKeys := make(map[string]bool)
	for _, idx := range create.TableSpec.Indexes {
		if idx.Info != nil && idx.Info.Primary {
			for _, col := range idx.Columns {
				primaryKeys[col.Column.String()] = true
			}
		}
	}

	for _, col := range create.TableSpec.Columns {
		name := col.Name.String()
		meta.Columns = append(meta.Columns, ColumnMeta{
			Name:       name,
			SQLType:    col.Type.Type,
			Nullable:   bool(col.Type.NotNull) == false,
			PrimaryKey: primaryKeys[name] || col.Type.KeyOpt == sqlparser.ColKeyPrimary,
		})
	}
	return meta, nil
}

// evictPattern matches the DDL statement types whose execution on a
// cached table must evict it (§4.H: the binlog always carries the DDL
// event before the row events that reflect its effect, so evict-then-
// refetch on next miss is race-free within the single decode thread).
var evictPattern = regexp.MustCompile(`(?i)^\s*(ALTER|CREATE|DROP|RENAME|TRUNCATE)\b`)

// IsSchemaChangingDDL reports whether sql is a statement this cache
// must evict an entry for, per §4.H's eviction policy.
func IsSchemaChangingDDL(sql string) bool {
	return evictPattern.MatchString(sql)
}

// TableMetaCache implements §4.H: a no-TTL, per-"schema.table" cache of
// enriched column metadata, populated on demand via SQLQueryExecutor
// and DDLParser, evicted on observed schema-changing DDL.
type TableMetaCache struct {
	mu       sync.RWMutex
	entries  map[string]*TableMeta
	executor SQLQueryExecutor
	parser   DDLParser
	log      fieldLogger
}

// NewTableMetaCache constructs a cache backed by a real SHOW CREATE
// TABLE side connection (dsn) and the vitess-derived DDL parser.
func NewTableMetaCache(dsn string) (*TableMetaCache, error) {
	exec, err := newSQLExecutor(dsn)
	if err != nil {
		return nil, err
	}
	return &TableMetaCache{
		entries:  make(map[string]*TableMeta),
		executor: exec,
		parser:   vitessDDLParser{},
		log:      packageLogger,
	}, nil
}

func qualifiedName(schema, table string) string { return schema + "." + table }

// Lookup returns the cached TableMeta for schema.table, fetching and
// parsing it via SHOW CREATE TABLE on a cache miss. A SHOW CREATE
// TABLE or parse failure is an Enrichment-class fault (§7): non-fatal,
// logged, and nil is returned so the caller falls back to generated
// column names.
func (c *TableMetaCache) Lookup(schema, table string) *TableMeta {
	key := qualifiedName(schema, table)

	c.mu.RLock()
	meta, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return meta
	}

	ddl, err := c.executor.ShowCreateTable(schema, table)
	if err != nil {
		c.log.WithField("table", key).Warn("table-meta enrichment: SHOW CREATE TABLE failed: ", err)
		return nil
	}
	meta, err = c.parser.Parse(ddl)
	if err != nil {
		c.log.WithField("table", key).Warn("table-meta enrichment: DDL parse failed: ", err)
		return nil
	}
	meta.Schema, meta.Table = schema, table

	c.mu.Lock()
	c.entries[key] = meta
	c.mu.Unlock()
	return meta
}

// Evict drops a cached entry, called by the decode loop when it sees a
// QUERY_EVENT whose SQL matches IsSchemaChangingDDL for this table.
func (c *TableMetaCache) Evict(schema, table string) {
	c.mu.Lock()
	delete(c.entries, qualifiedName(schema, table))
	c.mu.Unlock()
}

// EvictSchema drops every cached entry for schema. A QUERY_EVENT's DDL
// text names the schema but not always the table in a form worth
// parsing (ALTER ... RENAME, multi-table DROP), so the decode loop
// evicts the whole schema rather than risk serving stale columns for
// one it missed.
func (c *TableMetaCache) EvictSchema(schema string) {
	prefix := schema + "."
	c.mu.Lock()
	for k := range c.entries {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
