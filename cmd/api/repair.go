package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/finance-tracker/internal/metrics"
	"github.com/baharkarakas/finance-tracker/internal/services"
	"github.com/baharkarakas/finance-tracker/internal/worker"
)

var (
	flagUserID   string
	flagBudgetID string
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Recompute budget expenditure from the stored expenses",
	Long:  "Recompute each budget's expenditure as the sum of its expenses, fix drifted totals and re-evaluate their alerts.",
	RunE:  runRepair,
}

func init() {
	repairCmd.Flags().StringVar(&flagUserID, "user-id", "", "Owner whose budgets are repaired (required)")
	repairCmd.Flags().StringVar(&flagBudgetID, "budget-id", "", "Repair only this budget")
	_ = repairCmd.MarkFlagRequired("user-id")
}

func runRepair(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	ledger, closeLedger, err := openLedger(cmd.Context(), cfg, log, false)
	if err != nil {
		return err
	}
	defer closeLedger()

	wp := worker.NewPool(cfg.Workers)
	defer wp.Stop()
	metrics.Init()
	svc := services.New(ledger, wp, log)

	var results []services.RepairResult
	if flagBudgetID != "" {
		res, err := svc.Repair.RepairBudget(cmd.Context(), flagBudgetID, flagUserID)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		results, err = svc.Repair.RepairAll(cmd.Context(), flagUserID)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(results); encErr != nil {
		return errors.Join(err, encErr)
	}
	return err
}
