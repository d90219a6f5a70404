package travel

import (
	"context"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roamstack/travel-concierge/src/overpass"
)

// Register wires every tool of the service onto the MCP server.
func Register(mcpServer *server.MCPServer, svc *Service) {
	holidaysTool := mcp.Tool{
		Name:        "get_public_holidays",
		Description: "Get public holidays for a specific country and year. Provides holiday names, local names and dates for planning travel around national celebrations.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"year": map[string]any{
					"type":        "integer",
					"description": "Year to get holidays for (e.g., 2024, 2025)",
				},
				"country_code": map[string]any{
					"type":        "string",
					"description": "Two letter country code (e.g., 'US', 'GB', 'DE', 'JP', 'AU')",
				},
			},
			Required: []string{"year", "country_code"},
		},
	}
	mcpServer.AddTool(holidaysTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		year := intArg(args, "year", 0)
		countryCode, _ := args["country_code"].(string)
		log.Printf("travel: get_public_holidays year=%d country=%s", year, countryCode)
		return textResult(svc.PublicHolidays(ctx, year, countryCode)), nil
	})

	weatherTool := mcp.Tool{
		Name:        "get_weather_by_location",
		Description: "Get weather forecast for a location by name, including current conditions, daily temperature ranges, precipitation probability and wind speeds.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "Location name (country, city, etc.) - e.g., 'Paris', 'Tokyo', 'New York'",
				},
				"days": map[string]any{
					"type":        "integer",
					"description": "Number of days to forecast (1-16, default 7)",
				},
			},
			Required: []string{"location"},
		},
	}
	mcpServer.AddTool(weatherTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		location, _ := args["location"].(string)
		days := intArg(args, "days", 7)
		log.Printf("travel: get_weather_by_location location=%s days=%d", location, days)
		return textResult(svc.WeatherByLocation(ctx, location, days)), nil
	})

	countryTool := mcp.Tool{
		Name:        "get_country_info",
		Description: "Get detailed information about a specific country: official name, capital, demographics, languages, currencies, time zones and coordinates. If the name is not a country, do not use this tool.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"country_name": map[string]any{
					"type":        "string",
					"description": "Name of the country (e.g., 'france', 'japan', 'brazil', 'australia')",
				},
			},
			Required: []string{"country_name"},
		},
	}
	mcpServer.AddTool(countryTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		countryName, _ := args["country_name"].(string)
		log.Printf("travel: get_country_info country=%s", countryName)
		return textResult(svc.CountryInfo(ctx, countryName)), nil
	})

	poiTool := mcp.Tool{
		Name:        "search_poi",
		Description: "Search for points of interest in a location using OpenStreetMap: attractions, restaurants, hotels, museums and more, with contact details, opening hours and addresses.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "Location to search in (city, country, etc.) - e.g., 'Paris', 'Tokyo'",
				},
				"poi_type": map[string]any{
					"type":        "string",
					"description": "Type of POI to search for, e.g. 'restaurants', 'hotels', 'attractions', 'museums'",
					"enum":        overpass.Categories(),
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results (default 10, max 50)",
				},
				"radius": map[string]any{
					"type":        "integer",
					"description": "Search radius in meters (default 10000, max 50000)",
				},
			},
			Required: []string{"location"},
		},
	}
	mcpServer.AddTool(poiTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		location, _ := args["location"].(string)
		poiType, _ := args["poi_type"].(string)
		if poiType == "" {
			poiType = "attractions"
		}
		limit := intArg(args, "limit", 10)
		radius := intArg(args, "radius", 10000)
		log.Printf("travel: search_poi location=%s type=%s limit=%d radius=%d", location, poiType, limit, radius)
		return textResult(svc.SearchPOI(ctx, location, poiType, limit, radius)), nil
	})

	currencyTool := mcp.Tool{
		Name:        "convert_currency",
		Description: "Convert an amount from one currency to another using current exchange rates.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"amount": map[string]any{
					"type":        "number",
					"description": "Amount to convert (e.g., 100.0)",
				},
				"from_currency": map[string]any{
					"type":        "string",
					"description": "Source currency code (e.g., 'USD', 'EUR', 'JPY', 'GBP')",
				},
				"to_currency": map[string]any{
					"type":        "string",
					"description": "Target currency code (e.g., 'EUR', 'USD', 'CAD', 'AUD')",
				},
			},
			Required: []string{"amount", "from_currency", "to_currency"},
		},
	}
	mcpServer.AddTool(currencyTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		amount := floatArg(args, "amount", 0)
		from, _ := args["from_currency"].(string)
		to, _ := args["to_currency"].(string)
		from = strings.ToUpper(from)
		to = strings.ToUpper(to)
		log.Printf("travel: convert_currency amount=%g from=%s to=%s", amount, from, to)
		return textResult(svc.ConvertCurrency(ctx, amount, from, to)), nil
	})

	countrySummaryTool := mcp.Tool{
		Name:        "get_travel_summary_for_country",
		Description: "Get a comprehensive travel summary for a country: country information, weather forecast, popular attractions and upcoming public holidays.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"country_name": map[string]any{
					"type":        "string",
					"description": "Country name (e.g., 'France', 'Japan', 'Australia')",
				},
			},
			Required: []string{"country_name"},
		},
	}
	mcpServer.AddTool(countrySummaryTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		countryName, _ := args["country_name"].(string)
		log.Printf("travel: get_travel_summary_for_country country=%s", countryName)
		return textResult(svc.TravelSummaryForCountry(ctx, countryName)), nil
	})

	citySummaryTool := mcp.Tool{
		Name:        "get_travel_summary_for_city",
		Description: "Get a comprehensive travel summary for a city: country information, weather forecast, popular attractions and upcoming public holidays.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"city_name": map[string]any{
					"type":        "string",
					"description": "City name (e.g., 'Paris', 'Tokyo', 'New York')",
				},
				"country_name": map[string]any{
					"type":        "string",
					"description": "Country name (e.g., 'France', 'Japan', 'Australia')",
				},
			},
			Required: []string{"city_name", "country_name"},
		},
	}
	mcpServer.AddTool(citySummaryTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		cityName, _ := args["city_name"].(string)
		countryName, _ := args["country_name"].(string)
		log.Printf("travel: get_travel_summary_for_city city=%s country=%s", cityName, countryName)
		return textResult(svc.TravelSummaryForCity(ctx, cityName, countryName)), nil
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// JSON numbers decode as float64; accept both forms.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func floatArg(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}
