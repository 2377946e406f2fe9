package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"restopos/internal/domain"
	"restopos/internal/dto"
)

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/categories", path: "/categories"})
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	list, err := decodeList[dto.CategoryDTO](body, "categories")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(list))
	for _, cat := range list {
		out = append(out, cat.ToDomain())
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in dto.CategoryRequest) (domain.Category, error) {
	return c.saveCategory(ctx, http.MethodPost, "/categories", "/categories", in)
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in dto.CategoryRequest) (domain.Category, error) {
	return c.saveCategory(ctx, http.MethodPut, "/categories/{id}", idPath("/categories", id), in)
}

func (c *Client) saveCategory(ctx context.Context, method, route, path string, in dto.CategoryRequest) (domain.Category, error) {
	req, err := jsonRequest(method, route, path, in)
	if err != nil {
		return domain.Category{}, err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return domain.Category{}, fmt.Errorf("saving category: %w", err)
	}
	out, err := decodeOne[dto.CategoryDTO](body, "category")
	if err != nil {
		return domain.Category{}, err
	}
	return out.ToDomain(), nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, request{method: http.MethodDelete, route: "/categories/{id}", path: idPath("/categories", id)}); err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	return nil
}

// MenuItemFilter narrows GET /menu-items. Zero values are not sent.
type MenuItemFilter struct {
	CategoryID    int64
	AvailableOnly bool
	Search        string
}

func (c *Client) ListMenuItems(ctx context.Context, f MenuItemFilter) ([]domain.MenuItem, error) {
	req := request{method: http.MethodGet, route: "/menu-items", path: "/menu-items", query: url.Values{}}
	if f.CategoryID > 0 {
		req.query.Set("category_id", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.AvailableOnly {
		req.query.Set("is_available", "1")
	}
	if f.Search != "" {
		req.query.Set("search", f.Search)
	}

	body, err := c.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	list, err := decodeList[dto.MenuItemDTO](body, "menu_items")
	if err != nil {
		return nil, err
	}
	out := make([]domain.MenuItem, 0, len(list))
	for _, m := range list {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (c *Client) GetMenuItem(ctx context.Context, id int64) (domain.MenuItem, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/menu-items/{id}", path: idPath("/menu-items", id)})
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("fetching menu item %d: %w", id, err)
	}
	out, err := decodeOne[dto.MenuItemDTO](body, "menu_item")
	if err != nil {
		return domain.MenuItem{}, err
	}
	return out.ToDomain(), nil
}

func (c *Client) CreateMenuItem(ctx context.Context, in dto.MenuItemRequest) (domain.MenuItem, error) {
	return c.saveMenuItem(ctx, "/menu-items", "/menu-items", "", in)
}

// UpdateMenuItem posts multipart with _method=PUT; PHP backends do not parse
// multipart bodies on real PUT requests.
func (c *Client) UpdateMenuItem(ctx context.Context, id int64, in dto.MenuItemRequest) (domain.MenuItem, error) {
	return c.saveMenuItem(ctx, "/menu-items/{id}", idPath("/menu-items", id), http.MethodPut, in)
}

func (c *Client) saveMenuItem(ctx context.Context, route, path, override string, in dto.MenuItemRequest) (domain.MenuItem, error) {
	payload, contentType, err := menuItemForm(in, override)
	if err != nil {
		return domain.MenuItem{}, err
	}
	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		route:       route,
		path:        path,
		body:        payload,
		contentType: contentType,
	})
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("saving menu item: %w", err)
	}
	out, err := decodeOne[dto.MenuItemDTO](body, "menu_item")
	if err != nil {
		return domain.MenuItem{}, err
	}
	return out.ToDomain(), nil
}

func menuItemForm(in dto.MenuItemRequest, methodOverride string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"category_id", strconv.FormatInt(in.CategoryID, 10)},
		{"name", in.Name},
		{"description", in.Description},
		{"price", in.Price.String()},
		{"is_available", boolField(in.IsAvailable)},
	}
	if methodOverride != "" {
		fields = append(fields, [2]string{"_method", methodOverride})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", f[0], err)
		}
	}

	if len(in.Image) > 0 {
		name := in.ImageName
		if name == "" {
			name = "image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, "", fmt.Errorf("creating image part: %w", err)
		}
		if _, err := part.Write(in.Image); err != nil {
			return nil, "", fmt.Errorf("writing image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, request{method: http.MethodDelete, route: "/menu-items/{id}", path: idPath("/menu-items", id)}); err != nil {
		return fmt.Errorf("deleting menu item %d: %w", id, err)
	}
	return nil
}

func (c *Client) ListTables(ctx context.Context) ([]domain.Table, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/tables", path: "/tables"})
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	list, err := decodeList[dto.TableDTO](body, "tables")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Table, 0, len(list))
	for _, t := range list {
		out = append(out, t.ToDomain())
	}
	return out, nil
}

func (c *Client) CreateTable(ctx context.Context, in dto.TableRequest) (domain.Table, error) {
	return c.saveTable(ctx, http.MethodPost, "/tables", "/tables", in)
}

func (c *Client) UpdateTable(ctx context.Context, id int64, in dto.TableRequest) (domain.Table, error) {
	return c.saveTable(ctx, http.MethodPut, "/tables/{id}", idPath("/tables", id), in)
}

func (c *Client) saveTable(ctx context.Context, method, route, path string, in dto.TableRequest) (domain.Table, error) {
	req, err := jsonRequest(method, route, path, in)
	if err != nil {
		return domain.Table{}, err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return domain.Table{}, fmt.Errorf("saving table: %w", err)
	}
	out, err := decodeOne[dto.TableDTO](body, "table")
	if err != nil {
		return domain.Table{}, err
	}
	return out.ToDomain(), nil
}

func (c *Client) DeleteTable(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, request{method: http.MethodDelete, route: "/tables/{id}", path: idPath("/tables", id)}); err != nil {
		return fmt.Errorf("deleting table %d: %w", id, err)
	}
	return nil
}
