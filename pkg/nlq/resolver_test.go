package nlq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neelkamal0666/dremio-mcp/pkg/catalog"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]catalog.TableDescriptor{
		{
			Path: "DataMesh.application.accounts",
			Columns: []catalog.ColumnDescriptor{
				{Name: "id", DataType: "BIGINT"},
				{Name: "name", DataType: "VARCHAR", Nullable: true},
				{Name: "email", DataType: "VARCHAR", Nullable: true},
				{Name: "age", DataType: "INTEGER", Nullable: true},
				{Name: "balance", DataType: "DOUBLE", Nullable: true},
			},
			Wiki: "# Accounts\nCustomer accounts with contact details.",
		},
		{
			Path: "DataMesh.application.orders",
			Columns: []catalog.ColumnDescriptor{
				{Name: "order_id", DataType: "BIGINT"},
				{Name: "account_id", DataType: "BIGINT"},
				{Name: "amount", DataType: "DOUBLE", Nullable: true},
				{Name: "created_at", DataType: "TIMESTAMP", Nullable: true},
			},
		},
		{
			Path: "warehouse.users",
			Columns: []catalog.ColumnDescriptor{
				{Name: "id", DataType: "BIGINT"},
				{Name: "name", DataType: "VARCHAR", Nullable: true},
				{Name: "email", DataType: "VARCHAR", Nullable: true},
				{Name: "age", DataType: "INTEGER", Nullable: true},
			},
		},
	})
}

func defaultResolver() *Resolver {
	return &Resolver{MinScore: 1, PreferShortestPath: true}
}

func TestResolveTable_LeafName(t *testing.T) {
	snap := testSnapshot()
	r := defaultResolver()

	table := r.ResolveTable("how many accounts are there", snap)
	require.NotNil(t, table)
	assert.Equal(t, "DataMesh.application.accounts", table.Path)
}

func TestResolveTable_SingularFolding(t *testing.T) {
	snap := testSnapshot()
	r := defaultResolver()

	// "order" should find the "orders" table.
	table := r.ResolveTable("show the latest order", snap)
	require.NotNil(t, table)
	assert.Equal(t, "DataMesh.application.orders", table.Path)
}

func TestResolveTable_FullPathMention(t *testing.T) {
	snap := testSnapshot()
	r := defaultResolver()

	table := r.ResolveTable("select everything from DataMesh.application.orders", snap)
	require.NotNil(t, table)
	assert.Equal(t, "DataMesh.application.orders", table.Path)
}

func TestResolveTable_NoOverlap(t *testing.T) {
	snap := testSnapshot()
	r := defaultResolver()

	assert.Nil(t, r.ResolveTable("asdkjasd zzz", snap))
	assert.Nil(t, r.ResolveTable("", snap))
}

func TestResolveTable_ColumnHit(t *testing.T) {
	snap := testSnapshot()
	r := defaultResolver()

	// "amount" only exists on orders.
	table := r.ResolveTable("what is the biggest amount", snap)
	require.NotNil(t, table)
	assert.Equal(t, "DataMesh.application.orders", table.Path)
}

func TestResolveTable_ShortestPathTieBreak(t *testing.T) {
	snap := catalog.NewSnapshot([]catalog.TableDescriptor{
		{Path: "a.b.events", Columns: []catalog.ColumnDescriptor{{Name: "id", DataType: "BIGINT"}}},
		{Path: "c.events", Columns: []catalog.ColumnDescriptor{{Name: "id", DataType: "BIGINT"}}},
	})

	r := &Resolver{MinScore: 1, PreferShortestPath: true}
	table := r.ResolveTable("show events", snap)
	require.NotNil(t, table)
	assert.Equal(t, "c.events", table.Path)

	r = &Resolver{MinScore: 1, PreferShortestPath: false}
	table = r.ResolveTable("show events", snap)
	require.NotNil(t, table)
	assert.Equal(t, "a.b.events", table.Path)
}

func TestResolveColumns_MentionOrder(t *testing.T) {
	snap := testSnapshot()
	table := snap.Lookup("DataMesh.application.accounts")
	require.NotNil(t, table)

	cols := ResolveColumns("show me only the names and emails", table)
	assert.Equal(t, []string{"name", "email"}, cols)

	cols = ResolveColumns("emails and names please, just those", table)
	assert.Equal(t, []string{"email", "name"}, cols)
}

func TestResolveColumns_SynonymToColumnFragment(t *testing.T) {
	table := &catalog.TableDescriptor{
		Path: "crm.contacts",
		Columns: []catalog.ColumnDescriptor{
			{Name: "contact_id", DataType: "BIGINT"},
			{Name: "full_name", DataType: "VARCHAR"},
			{Name: "mobile_number", DataType: "VARCHAR"},
		},
	}

	cols := ResolveColumns("just the names and phones", table)
	assert.Equal(t, []string{"full_name", "mobile_number"}, cols)
}

func TestResolveColumns_NoMatch(t *testing.T) {
	snap := testSnapshot()
	table := snap.Lookup("DataMesh.application.orders")
	require.NotNil(t, table)

	assert.Empty(t, ResolveColumns("only the favorite colors", table))
}

func TestResolveAggregationColumn(t *testing.T) {
	snap := testSnapshot()

	accounts := snap.Lookup("DataMesh.application.accounts")
	require.NotNil(t, accounts)
	assert.Equal(t, "age", ResolveAggregationColumn("what is the average age of users", accounts))
	assert.Equal(t, "balance", ResolveAggregationColumn("sum of all balance values", accounts))

	orders := snap.Lookup("DataMesh.application.orders")
	require.NotNil(t, orders)
	assert.Equal(t, "amount", ResolveAggregationColumn("total amount of orders", orders))

	// No numeric column mentioned or implied.
	assert.Equal(t, "", ResolveAggregationColumn("average of nothing in particular", accounts))
}

func TestKeywords(t *testing.T) {
	kws := Keywords("Show me all the accounts in the system")
	assert.Equal(t, []string{"accounts", "system"}, kws)
}
