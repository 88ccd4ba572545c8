package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tech_office_cms_go/models"
)

func TestCreateCustomer(t *testing.T) {
	env := setupEnv(t)

	t.Run("Auto-assigns next code", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/customers", strings.NewReader(`{"name":"First"}`))
		invoke(c, rec, env.handlers.Customers.Create)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Customer
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "1", created.CustomerID)
		assert.Equal(t, models.CustomerStatusActive, created.Status)
	})

	t.Run("Skips past manually assigned codes", func(t *testing.T) {
		env.db.Create(&models.Customer{CustomerID: "41", Name: "Manual"})

		_, c, rec := setupEcho(http.MethodPost, "/api/customers", strings.NewReader(`{"name":"Second"}`))
		invoke(c, rec, env.handlers.Customers.Create)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Customer
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "42", created.CustomerID)
	})

	t.Run("Missing name", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/customers", strings.NewReader(`{"email":"x@y.z"}`))
		invoke(c, rec, env.handlers.Customers.Create)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"name required"}`, rec.Body.String())
	})

	t.Run("Duplicate code rejected", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/customers", strings.NewReader(`{"name":"Dup","customer_id":"41"}`))
		invoke(c, rec, env.handlers.Customers.Create)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Notes are stripped of HTML", func(t *testing.T) {
		body := `{"name":"Noted","notes":"plain <script>alert(1)</script>text"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/customers", strings.NewReader(body))
		invoke(c, rec, env.handlers.Customers.Create)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Customer
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotContains(t, created.Notes, "<script>")
	})
}

func TestListCustomers(t *testing.T) {
	env := setupEnv(t)
	env.db.Create(&models.Customer{CustomerID: "1", Name: "Acme", Email: "info@acme.gr"})
	env.db.Create(&models.Customer{CustomerID: "2", Name: "Beta", ContactPerson: "Maria"})

	t.Run("Filter matches contact person", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/customers?q=Maria", nil)
		invoke(c, rec, env.handlers.Customers.List)
		assert.Equal(t, http.StatusOK, rec.Code)

		var customers []models.Customer
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
		assert.Len(t, customers, 1)
		assert.Equal(t, "Beta", customers[0].Name)
	})

	t.Run("Filter matches email", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/customers?q=acme.gr", nil)
		invoke(c, rec, env.handlers.Customers.List)

		var customers []models.Customer
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
		assert.Len(t, customers, 1)
	})
}

func TestUpdateCustomer(t *testing.T) {
	env := setupEnv(t)
	env.db.Create(&models.Customer{CustomerID: "1", Name: "Acme"})

	t.Run("Success", func(t *testing.T) {
		body := `{"customer_id":"1","name":"Acme Renamed","status":"Lead"}`
		_, c, rec := setupEcho(http.MethodPut, "/api/customers/1", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues("1")
		invoke(c, rec, env.handlers.Customers.Update)
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Customer
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "Acme Renamed", updated.Name)
		assert.Equal(t, models.CustomerStatusLead, updated.Status)
	})

	t.Run("Missing required fields", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPut, "/api/customers/1", strings.NewReader(`{"name":"Only Name"}`))
		c.SetParamNames("id")
		c.SetParamValues("1")
		invoke(c, rec, env.handlers.Customers.Update)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"customer_id and name required"}`, rec.Body.String())
	})

	t.Run("Not found", func(t *testing.T) {
		body := `{"customer_id":"9","name":"Ghost"}`
		_, c, rec := setupEcho(http.MethodPut, "/api/customers/99", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues("99")
		invoke(c, rec, env.handlers.Customers.Update)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCustomerDetails(t *testing.T) {
	env := setupEnv(t)
	env.db.Create(&models.Customer{CustomerID: "1", Name: "Acme"})
	env.db.Create(&models.Case{CaseNumber: "C-1", ClientName: "Acme"})
	env.db.Create(&models.Case{CaseNumber: "C-2", ClientName: "Other"})

	t.Run("Name fallback without links", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/customers/1/details", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		invoke(c, rec, env.handlers.Customers.Details)
		assert.Equal(t, http.StatusOK, rec.Code)

		var details struct {
			Customer models.Customer `json:"customer"`
			Cases    []models.Case   `json:"cases"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
		assert.Len(t, details.Cases, 1)
		assert.Equal(t, "C-1", details.Cases[0].CaseNumber)
	})

	t.Run("Explicit links win over name match", func(t *testing.T) {
		env.db.Create(&models.CaseCustomer{CaseID: 2, CustomerID: 1})

		_, c, rec := setupEcho(http.MethodGet, "/api/customers/1/details", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		invoke(c, rec, env.handlers.Customers.Details)

		var details struct {
			Customer models.Customer `json:"customer"`
			Cases    []models.Case   `json:"cases"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
		assert.Len(t, details.Cases, 1)
		assert.Equal(t, "C-2", details.Cases[0].CaseNumber)
	})
}
