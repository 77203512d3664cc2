package main

import (
	"strings"

	"github.com/spf13/cobra"

	"agrodash/internal/services"
)

func addCriteriaFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "first day, YYYY-MM-DD (default: earliest record)")
	cmd.Flags().String("to", "", "last day, YYYY-MM-DD (default: latest record)")
	cmd.Flags().StringSlice("commodities", nil, "commodities to include; an empty value selects none (default: all)")
	cmd.Flags().String("rate", "", "dollar rate, buy or sell (default: buy)")
}

// criteriaRequest reads the criteria flags. A --commodities flag given
// with an empty value selects no commodity.
func criteriaRequest(cmd *cobra.Command) services.CriteriaRequest {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	rate, _ := cmd.Flags().GetString("rate")
	req := services.CriteriaRequest{
		From: strings.TrimSpace(from),
		To:   strings.TrimSpace(to),
		Rate: strings.ToLower(strings.TrimSpace(rate)),
	}
	if cmd.Flags().Changed("commodities") {
		values, _ := cmd.Flags().GetStringSlice("commodities")
		req.Commodities = []string{}
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				req.Commodities = append(req.Commodities, v)
			}
		}
	}
	return req
}
