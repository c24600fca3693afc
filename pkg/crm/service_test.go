package crm

import (
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceForTest(t *testing.T) (*PostgresService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{
		"CREATE TABLE IF NOT EXISTS clients",
		"CREATE TABLE IF NOT EXISTS projects",
		"CREATE TABLE IF NOT EXISTS invoices",
	} {
		mock.ExpectExec(table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	svc, err := NewPostgresService(db)
	require.NoError(t, err)
	return svc, mock
}

func TestCreateClient(t *testing.T) {
	svc, mock := newServiceForTest(t)

	mock.ExpectQuery("INSERT INTO clients").
		WithArgs(int64(1), "Jane Homeowner", "jane@example.com", "555-0100", "12 Oak St", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(42), time.Now(), time.Now()))

	client := &Client{
		OrgID: 1, Name: "Jane Homeowner", Email: "jane@example.com",
		Phone: "555-0100", Address: "12 Oak St",
	}
	require.NoError(t, svc.CreateClient(client))
	assert.Equal(t, int64(42), client.ID)
}

func TestGetClientScopedToOrg(t *testing.T) {
	svc, mock := newServiceForTest(t)

	mock.ExpectQuery("SELECT (.+) FROM clients WHERE id = (.+) AND org_id =").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetClient(1, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client not found")
}

func TestUpdateClientNotFound(t *testing.T) {
	svc, mock := newServiceForTest(t)

	mock.ExpectExec("UPDATE clients").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.UpdateClient(&Client{ID: 42, OrgID: 1, Name: "Jane"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client not found")
}

func TestCreateProjectDefaultsStatus(t *testing.T) {
	svc, mock := newServiceForTest(t)

	mock.ExpectQuery("INSERT INTO projects").
		WithArgs(int64(1), int64(42), "Kitchen repaint", ProjectStatusDraft, "", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(9), time.Now(), time.Now()))

	project := &Project{OrgID: 1, ClientID: 42, Name: "Kitchen repaint"}
	require.NoError(t, svc.CreateProject(project))
	assert.Equal(t, ProjectStatusDraft, project.Status)
	assert.Equal(t, int64(9), project.ID)
}

func TestUpdateProjectStatusNotFound(t *testing.T) {
	svc, mock := newServiceForTest(t)

	mock.ExpectExec("UPDATE projects SET status").
		WithArgs(ProjectStatusActive, int64(9), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.UpdateProjectStatus(1, 9, ProjectStatusActive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project not found")
}

func TestCreateInvoiceDefaults(t *testing.T) {
	svc, mock := newServiceForTest(t)

	mock.ExpectQuery("INSERT INTO invoices").
		WithArgs(int64(1), int64(9), sqlmock.AnyArg(), int64(156429), "usd", InvoiceStatusDraft, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(3), time.Now(), time.Now()))

	invoice := &Invoice{OrgID: 1, ProjectID: 9, AmountCents: 156429}
	require.NoError(t, svc.CreateInvoice(invoice))

	assert.Equal(t, "usd", invoice.Currency)
	assert.Equal(t, InvoiceStatusDraft, invoice.Status)
	assert.True(t, strings.HasPrefix(invoice.InvoiceNumber, "INV-"))
	assert.Len(t, invoice.InvoiceNumber, 14)
}

func TestCreateInvoiceKeepsSuppliedNumber(t *testing.T) {
	svc, mock := newServiceForTest(t)

	mock.ExpectQuery("INSERT INTO invoices").
		WithArgs(int64(1), int64(9), "INV-CUSTOM0001", int64(5000), "usd", InvoiceStatusSent, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(4), time.Now(), time.Now()))

	invoice := &Invoice{
		OrgID: 1, ProjectID: 9, InvoiceNumber: "INV-CUSTOM0001",
		AmountCents: 5000, Status: InvoiceStatusSent,
	}
	require.NoError(t, svc.CreateInvoice(invoice))
	assert.Equal(t, "INV-CUSTOM0001", invoice.InvoiceNumber)
}

func TestMarkInvoicePaid(t *testing.T) {
	svc, mock := newServiceForTest(t)

	t.Run("paid", func(t *testing.T) {
		mock.ExpectExec("UPDATE invoices").
			WithArgs(InvoiceStatusPaid, int64(3), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, svc.MarkInvoicePaid(1, 3))
	})

	t.Run("already paid or missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE invoices").
			WithArgs(InvoiceStatusPaid, int64(3), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.MarkInvoicePaid(1, 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found or already paid")
	})
}

func TestMarkOverdueInvoices(t *testing.T) {
	svc, mock := newServiceForTest(t)

	mock.ExpectExec("UPDATE invoices").
		WithArgs(InvoiceStatusOverdue, InvoiceStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := svc.MarkOverdueInvoices()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestGenerateInvoiceNumber(t *testing.T) {
	first := generateInvoiceNumber()
	second := generateInvoiceNumber()

	assert.True(t, strings.HasPrefix(first, "INV-"))
	assert.Len(t, first, 14)
	assert.Equal(t, strings.ToUpper(first), first)
	assert.NotEqual(t, first, second)
}
