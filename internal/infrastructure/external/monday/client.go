// Package monday manages board items through the Monday.com GraphQL API
package monday

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-automations/internal/infrastructure/external/graphql"
)

const createItemMutation = `mutation CreateItem($boardId: ID!, $groupId: String!, $itemName: String!) {
  create_item(board_id: $boardId, group_id: $groupId, item_name: $itemName) { id }
}`

const boardColumnsQuery = `query BoardColumns($boardIds: [ID!]) {
  boards(ids: $boardIds) { columns { id title type } }
}`

const changeColumnValuesMutation = `mutation ChangeColumnValues($boardId: ID!, $itemId: ID!, $values: JSON!) {
  change_multiple_column_values(board_id: $boardId, item_id: $itemId, column_values: $values) { id }
}`

// Column is a board column definition
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Column types the exporter writes to
const (
	ColumnTypeText     = "text"
	ColumnTypeLongText = "long_text"
	ColumnTypeStatus   = "status"
	ColumnTypeColor    = "color"
)

// Client calls the Monday.com API
type Client struct {
	gql *graphql.Client
}

// NewClient creates a Monday.com client
func NewClient(gql *graphql.Client) *Client {
	return &Client{gql: gql}
}

// CreateItem creates an item in the board group and returns its id
func (c *Client) CreateItem(ctx context.Context, token, boardID, groupID, name string) (string, error) {
	var out struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}

	vars := map[string]any{
		"boardId":  boardID,
		"groupId":  groupID,
		"itemName": name,
	}
	if err := c.gql.Do(ctx, token, createItemMutation, vars, &out); err != nil {
		return "", err
	}
	if out.CreateItem.ID == "" {
		return "", fmt.Errorf("monday create_item returned no id for %q", name)
	}
	return out.CreateItem.ID, nil
}

// BoardColumns returns the column definitions of a board
func (c *Client) BoardColumns(ctx context.Context, token, boardID string) ([]Column, error) {
	var out struct {
		Boards []struct {
			Columns []Column `json:"columns"`
		} `json:"boards"`
	}

	vars := map[string]any{"boardIds": []string{boardID}}
	if err := c.gql.Do(ctx, token, boardColumnsQuery, vars, &out); err != nil {
		return nil, err
	}
	if len(out.Boards) == 0 {
		return nil, fmt.Errorf("monday board %s not found", boardID)
	}
	return out.Boards[0].Columns, nil
}

// ChangeColumnValues sets several columns of an item in one mutation.
// values maps column ids to Monday column value objects.
func (c *Client) ChangeColumnValues(ctx context.Context, token, boardID, itemID string, values map[string]any) error {
	encoded, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode column values: %w", err)
	}

	vars := map[string]any{
		"boardId": boardID,
		"itemId":  itemID,
		"values":  string(encoded),
	}
	return c.gql.Do(ctx, token, changeColumnValuesMutation, vars, nil)
}

// ColumnValue returns the value object used to write text into a column of the given type
func ColumnValue(columnType, text string) any {
	if columnType == ColumnTypeLongText {
		return map[string]string{"text": text}
	}
	return text
}

// StatusValue returns the value object selecting a status label
func StatusValue(label string) any {
	return map[string]string{"label": label}
}

// FindColumn returns the first column of one of the types whose title contains one of the keywords
func FindColumn(columns []Column, types []string, keywords []string) *Column {
	for i := range columns {
		col := &columns[i]
		if !contains(types, col.Type) {
			continue
		}
		title := strings.ToLower(col.Title)
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				return col
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
