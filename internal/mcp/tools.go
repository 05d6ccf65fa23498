package mcp

var categoryEnum = []string{"joy", "personal", "challenges"}

// ToolDefinitions returns the MCP tool definitions for the diary server.
func ToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name: "diary_list_memories",
			Description: "List diary memories. Without arguments returns every memory, most recently added first. " +
				"Filter by category to get that category sorted by date, newest first.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"category": {Type: "string", Description: "Only return this category", Enum: categoryEnum},
				},
			},
		},
		{
			Name:        "diary_day",
			Description: "Return the memories recorded on one calendar day.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"date": {Type: "string", Description: "Day as YYYY-MM-DD"},
				},
				Required: []string{"date"},
			},
		},
		{
			Name:        "diary_add_memory",
			Description: "Record a new memory. A blank title is stored as \"Untitled\".",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"category":    {Type: "string", Description: "Memory category", Enum: categoryEnum},
					"title":       {Type: "string", Description: "Short title"},
					"description": {Type: "string", Description: "What happened"},
					"dateISO":     {Type: "string", Description: "Date of the moment, YYYY-MM-DD or an ISO 8601 timestamp"},
				},
				Required: []string{"category", "dateISO"},
			},
		},
		{
			Name:        "diary_update_memory",
			Description: "Change fields of an existing memory. Omitted fields are left as they are.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"id":          {Type: "string", Description: "ID of the memory"},
					"category":    {Type: "string", Description: "New category", Enum: categoryEnum},
					"title":       {Type: "string", Description: "New title"},
					"description": {Type: "string", Description: "New description"},
					"dateISO":     {Type: "string", Description: "New date"},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "diary_remove_memory",
			Description: "Delete a memory. Deleting an unknown ID is not an error.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"id": {Type: "string", Description: "ID of the memory"},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "diary_calendar",
			Description: "Month calendar with the days that have memories marked.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"month": {Type: "string", Description: "Month as YYYY-MM, defaults to the current month"},
				},
			},
		},
		{
			Name:        "diary_rewards",
			Description: "Current points balance and unlocked tips.",
			InputSchema: InputSchema{Type: "object"},
		},
		{
			Name:        "diary_add_points",
			Description: "Credit points to the rewards balance.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"amount": {Type: "number", Description: "Points to add"},
				},
				Required: []string{"amount"},
			},
		},
		{
			Name: "diary_purchase_tip",
			Description: "Spend points to unlock a tip from the catalog. " +
				"Fails without spending when the balance does not cover the cost.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"tipId": {Type: "string", Description: "ID of the tip"},
				},
				Required: []string{"tipId"},
			},
		},
	}
}
