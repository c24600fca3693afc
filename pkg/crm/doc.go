// Package crm manages the customer-facing records of an organization:
// clients, the projects performed for them, and the invoices that bill them.
//
// # Overview
//
// Every record is scoped by organization id; reads and writes always carry
// the owning org so one tenant can never touch another's data. Invoices
// store amounts as integer cents and move through a small lifecycle
// (draft, sent, paid, overdue, void). A periodic sweep flips sent invoices
// past their due date to overdue.
//
// # Usage Example
//
//	client := &crm.Client{OrgID: orgID, Name: "Jane Homeowner"}
//	if err := service.CreateClient(client); err != nil {
//		return err
//	}
//
//	invoice := &crm.Invoice{
//		OrgID:       orgID,
//		ProjectID:   projectID,
//		AmountCents: 156429,
//	}
//	err := service.CreateInvoice(invoice)
//
// # Related Packages
//
//   - pkg/orgs: the organizations that own CRM records
//   - pkg/pricing: produces the quote totals invoices are built from
package crm
