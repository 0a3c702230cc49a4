package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-material-inventory/internal/testutil"
	"go-material-inventory/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSecret = "admin-secret"

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) *client {
	cfg := &config.Config{
		FrontendURL:  "*",
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
		AdminSecret:  adminSecret,
	}
	return &client{t: t, app: New(cfg, testutil.NewDB(t), true)}
}

// do sends body as JSON (raw when it is a string) and decodes the response into out
func (c *client) do(method, path, token string, body interface{}, out interface{}) int {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *client) signupAndLogin(name, email, role, secret string) (token, id string) {
	c.t.Helper()

	status := c.do(http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"name": name, "email": email, "password": "secret1", "role": role, "secret": secret,
	}, nil)
	require.Equal(c.t, http.StatusCreated, status)

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	status = c.do(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": email, "password": "secret1"}, &login)
	require.Equal(c.t, http.StatusOK, status)
	return login.Token, login.User.ID
}

type message struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

type created struct {
	Data struct {
		ID           string `json:"id"`
		CurrentStock int    `json:"current_stock"`
		Role         string `json:"role"`
	} `json:"data"`
}

func TestHealth(t *testing.T) {
	c := newClient(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuthEndpoints(t *testing.T) {
	c := newClient(t)

	var msg message
	status := c.do(http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"name": "Eve", "email": "eve@example.com", "password": "secret1", "role": "admin", "secret": "nope",
	}, &msg)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Invalid admin secret", msg.Msg)

	token, _ := c.signupAndLogin("Uma", "uma@example.com", "", "")

	status = c.do(http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"name": "Uma", "email": "uma@example.com", "password": "secret1",
	}, &msg)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", msg.Msg)

	status = c.do(http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": "uma@example.com", "password": "wrong1"}, &msg)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", msg.Msg)

	status = c.do(http.MethodPost, "/api/v1/auth/login", "", "{not json", &msg)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON", msg.Msg)

	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/auth/me", token, nil, &me))
	assert.Equal(t, "uma@example.com", me.Email)
	assert.Equal(t, "user", me.Role)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/v1/auth/me", "", nil, &msg))
	assert.Equal(t, "No token, authorization denied", msg.Msg)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/v1/auth/me", "bogus", nil, nil))

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, "/api/v1/auth/users", token, nil, nil))
}

func TestInventoryFlow(t *testing.T) {
	c := newClient(t)

	adminToken, _ := c.signupAndLogin("Ada", "ada@example.com", "admin", adminSecret)
	managerToken, managerID := c.signupAndLogin("Max", "max@example.com", "manager", "")
	userToken, _ := c.signupAndLogin("Uma", "uma@example.com", "", "")

	var promoted created
	require.Equal(t, http.StatusOK, c.do(http.MethodPatch, "/api/v1/auth/users/"+managerID+"/promote", adminToken, nil, &promoted))
	assert.Equal(t, "manager", promoted.Data.Role)

	var msg message

	// Categories
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/v1/categories", userToken, fiber.Map{"name": "Chemicals"}, &msg))

	var category created
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/categories", managerToken, fiber.Map{"name": "Chemicals"}, &category))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/categories", managerToken, fiber.Map{"name": "chemicals"}, &msg))
	assert.Equal(t, "Category already exists", msg.Msg)

	// Materials
	var material created
	status := c.do(http.MethodPost, "/api/v1/materials", managerToken, fiber.Map{
		"name":          "Ethanol",
		"category_id":   category.Data.ID,
		"price":         "4.20",
		"location":      "Lab A",
		"cupboard":      "C1",
		"shelf":         "S2",
		"current_stock": 10,
		"minimum_stock": 5,
	}, &material)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 10, material.Data.CurrentStock)
	materialPath := "/api/v1/materials/" + material.Data.ID

	var stock struct {
		PreviousStock int `json:"previous_stock"`
		NewStock      int `json:"new_stock"`
		Change        int `json:"change"`
	}
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPatch, materialPath+"/stock", userToken, fiber.Map{"action": "add", "quantity": 1}, nil))

	require.Equal(t, http.StatusOK, c.do(http.MethodPatch, materialPath+"/stock", managerToken, fiber.Map{"action": "remove", "quantity": 3}, &stock))
	assert.Equal(t, 10, stock.PreviousStock)
	assert.Equal(t, 7, stock.NewStock)
	assert.Equal(t, -3, stock.Change)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPatch, materialPath+"/stock", managerToken, fiber.Map{"action": "remove", "quantity": 10}, &msg))
	assert.Equal(t, "Not enough stock available", msg.Msg)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPatch, materialPath+"/stock", managerToken, fiber.Map{"action": "double", "quantity": 1}, &msg))
	assert.Equal(t, "Invalid action. Use 'add', 'remove', or 'set'.", msg.Msg)

	require.Equal(t, http.StatusOK, c.do(http.MethodPatch, materialPath+"/stock", managerToken, fiber.Map{"action": "set", "quantity": 0}, &stock))

	// Reads are open to every role
	var stocked created
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/materials", adminToken, fiber.Map{
		"name":          "Acetone",
		"category_id":   category.Data.ID,
		"price":         "3.10",
		"location":      "Lab A",
		"cupboard":      "C1",
		"shelf":         "S3",
		"current_stock": 50,
		"minimum_stock": 5,
	}, &stocked))

	for _, param := range []string{"lowStock", "low_stock"} {
		var lowStock []struct {
			Name string `json:"name"`
		}
		require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/materials?"+param+"=true", userToken, nil, &lowStock), param)
		require.Len(t, lowStock, 1, param)
		assert.Equal(t, "Ethanol", lowStock[0].Name, param)
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/v1/materials/"+stocked.Data.ID, adminToken, nil, nil))

	var history struct {
		Transactions []struct {
			Type        string `json:"type"`
			Change      string `json:"change"`
			PerformedBy string `json:"performed_by"`
		} `json:"transactions"`
		Total   int  `json:"total"`
		HasMore bool `json:"has_more"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, materialPath+"/transactions?limit=2", userToken, nil, &history))
	assert.Equal(t, 3, history.Total)
	assert.True(t, history.HasMore)
	require.Len(t, history.Transactions, 2)
	assert.Equal(t, "set", history.Transactions[0].Type)
	assert.Equal(t, "-7", history.Transactions[0].Change)
	assert.Equal(t, "Max", history.Transactions[0].PerformedBy)

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, "/api/v1/materials/transactions/recent", userToken, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/materials/transactions/user/"+managerID, managerToken, nil, &history))
	assert.Equal(t, 3, history.Total)

	// Deletes
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodDelete, "/api/v1/categories/"+category.Data.ID, adminToken, nil, &msg))
	assert.Equal(t, "Cannot delete category. It is used by 1 material(s).", msg.Msg)

	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, materialPath, managerToken, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, materialPath, adminToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, materialPath, userToken, nil, &msg))
	assert.Equal(t, "Material not found", msg.Msg)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/v1/materials/not-a-uuid", userToken, nil, nil))

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, materialPath+"/transactions", userToken, nil, &history))
	assert.Equal(t, 3, history.Total)

	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/api/v1/categories/"+category.Data.ID, adminToken, nil, nil))
}

func TestRoleRequestFlow(t *testing.T) {
	c := newClient(t)

	adminToken, _ := c.signupAndLogin("Ada", "ada@example.com", "admin", adminSecret)
	userToken, userID := c.signupAndLogin("Uma", "uma@example.com", "", "")

	var msg message
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/auth/role-requests", userToken, fiber.Map{"reason": "short"}, &msg))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/auth/role-requests", userToken, fiber.Map{"reason": "I run the stock room on weekends"}, nil))
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/v1/auth/role-requests", adminToken, fiber.Map{"reason": "I run the stock room on weekends"}, nil))

	var pending []struct {
		ID string `json:"id"`
	}
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodGet, "/api/v1/auth/role-requests", userToken, nil, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/auth/role-requests", adminToken, nil, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, userID, pending[0].ID)

	// Not allowed before approval, allowed right after with the same token
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/v1/categories", userToken, fiber.Map{"name": "Tools"}, nil))

	var reviewed created
	require.Equal(t, http.StatusOK, c.do(http.MethodPatch, "/api/v1/auth/role-requests/"+userID, adminToken, fiber.Map{"action": "approve"}, &reviewed))
	assert.Equal(t, "manager", reviewed.Data.Role)

	assert.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/categories", userToken, fiber.Map{"name": "Tools"}, nil))

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPatch, "/api/v1/auth/role-requests/"+userID, adminToken, fiber.Map{"action": "approve"}, &msg))
	assert.Equal(t, "No pending role request for this user", msg.Msg)
}
