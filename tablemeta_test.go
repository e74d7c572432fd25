package binlog

import (
	"testing"
)

func TestIsSchemaChangingDDL(t *testing.T) {
	cases := map[string]bool{
		"ALTER TABLE t ADD COLUMN c INT":  true,
		"  create table t (id int)":       true,
		"DROP TABLE t":                    true,
		"RENAME TABLE a TO b":              true,
		"TRUNCATE TABLE t":                true,
		"INSERT INTO t VALUES (1)":        false,
		"UPDATE t SET c = 1":              false,
		"BEGIN":                           false,
	}
	for sql, want := range cases {
		if got := IsSchemaChangingDDL(sql); got != want {
			t.Errorf("IsSchemaChangingDDL(%q) = %v, want %v", sql, got, want)
		}
	}
}

type fakeExecutor struct {
	ddl map[string]string
	err error
}

func (f *fakeExecutor) ShowCreateTable(schema, table string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.ddl[qualifiedName(schema, table)], nil
}

type fakeParser struct {
	meta map[string]*TableMeta
	err  error
}

func (f *fakeParser) Parse(ddl string) (*TableMeta, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.meta[ddl], nil
}

func TestTableMetaCache_LookupCachesAcrossCalls(t *testing.T) {
	calls := 0
	exec := &fakeExecutor{ddl: map[string]string{"s.t": "CREATE TABLE t (...)"}}
	parser := &fakeParser{meta: map[string]*TableMeta{
		"CREATE TABLE t (...)": {Columns: []ColumnMeta{{Name: "id"}}},
	}}
	countingExec := &countingExecutor{fakeExecutor: exec, calls: &calls}

	c := &TableMetaCache{
		entries:  make(map[string]*TableMeta),
		executor: countingExec,
		parser:   parser,
		log:      packageLogger,
	}

	m1 := c.Lookup("s", "t")
	m2 := c.Lookup("s", "t")
	if m1 == nil || m2 == nil {
		t.Fatal("expected a non-nil TableMeta")
	}
	if calls != 1 {
		t.Fatalf("ShowCreateTable called %d times, want 1 (cache hit expected)", calls)
	}
}

type countingExecutor struct {
	*fakeExecutor
	calls *int
}

func (c *countingExecutor) ShowCreateTable(schema, table string) (string, error) {
	*c.calls++
	return c.fakeExecutor.ShowCreateTable(schema, table)
}

func TestTableMetaCache_Evict(t *testing.T) {
	c := &TableMetaCache{entries: map[string]*TableMeta{
		"s.t": {Schema: "s", Table: "t"},
	}}
	c.Evict("s", "t")
	if _, ok := c.entries["s.t"]; ok {
		t.Fatal("expected entry to be evicted")
	}
}

func TestTableMetaCache_EvictSchema(t *testing.T) {
	c := &TableMetaCache{entries: map[string]*TableMeta{
		"s.t1":  {Schema: "s", Table: "t1"},
		"s.t2":  {Schema: "s", Table: "t2"},
		"s2.t1": {Schema: "s2", Table: "t1"},
	}}
	c.EvictSchema("s")
	if _, ok := c.entries["s.t1"]; ok {
		t.Fatal("expected s.t1 to be evicted")
	}
	if _, ok := c.entries["s.t2"]; ok {
		t.Fatal("expected s.t2 to be evicted")
	}
	if _, ok := c.entries["s2.t1"]; !ok {
		t.Fatal("did not expect s2.t1 to be evicted")
	}
}

func TestTableMetaCache_LookupEnrichmentFailureReturnsNil(t *testing.T) {
	c := &TableMetaCache{
		entries:  make(map[string]*TableMeta),
		executor: &fakeExecutor{err: errTableMetaTest},
		parser:   &fakeParser{},
		log:      packageLogger,
	}
	if got := c.Lookup("s", "t"); got != nil {
		t.Fatalf("got %#v, want nil on enrichment failure", got)
	}
}

var errTableMetaTest = &testError{"show create table failed"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
