// Package main provides the brainfin CLI: run any simulation model locally
// and print the result as JSON, no server or database required.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/baedea/brainfin/internal/engine"
	"github.com/baedea/brainfin/internal/models"
)

var rootCmd = &cobra.Command{
	Use:   "brainfin",
	Short: "Investment simulation toolkit",
	Long:  `Runs the BrainFin investment models (real estate, ETF, Monte Carlo equity, fixed income) from the command line and prints the result as JSON.`,
}

func main() {
	rootCmd.AddCommand(realEstateCmd(), etfCmd(), stockCmd(), bondCmd())
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printResult(result models.SimulationResult) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

func realEstateCmd() *cobra.Command {
	p := &models.RealEstateParameters{}
	var scenario string

	cmd := &cobra.Command{
		Use:   "real-estate",
		Short: "Analyze a leveraged property purchase",
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Scenario = models.Scenario(scenario)
			result, err := engine.Run(&models.Parameters{
				Type:       models.InvestmentRealEstate,
				RealEstate: p,
			})
			if err != nil {
				return err
			}
			return printResult(result)
		},
	}

	cmd.Flags().Float64Var(&p.HousePrice, "house-price", 0, "purchase price")
	cmd.Flags().Float64Var(&p.DownPayment, "down-payment", 0, "down payment")
	cmd.Flags().Float64Var(&p.LoanRate, "loan-rate", 0, "annual loan rate in percent")
	cmd.Flags().IntVar(&p.LoanYears, "loan-years", 20, "loan term in years")
	cmd.Flags().Float64Var(&p.AppreciationRateA, "appreciation-a", 0, "total appreciation for scenario A in percent")
	cmd.Flags().Float64Var(&p.AppreciationRateB, "appreciation-b", 0, "total appreciation for scenario B in percent")
	cmd.Flags().Float64Var(&p.AnnualCost, "annual-cost", 0, "annual holding cost")
	cmd.Flags().IntVar(&p.SimulationYears, "years", 10, "holding period in years")
	cmd.Flags().StringVar(&scenario, "scenario", "A", "exit scenario: A (early sale) or B (hold to maturity)")
	_ = cmd.MarkFlagRequired("house-price")

	return cmd
}

func etfCmd() *cobra.Command {
	p := &models.ETFParameters{}

	cmd := &cobra.Command{
		Use:   "etf",
		Short: "Simulate a periodic ETF investment with dividend reinvestment",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := engine.Run(&models.Parameters{
				Type: models.InvestmentETFRegular,
				ETF:  p,
			})
			if err != nil {
				return err
			}
			return printResult(result)
		},
	}

	cmd.Flags().Float64Var(&p.InitialAmount, "initial", 0, "initial investment")
	cmd.Flags().Float64Var(&p.MonthlyAmount, "monthly", 0, "monthly contribution")
	cmd.Flags().Float64Var(&p.DividendYield, "dividend-yield", 0, "annual dividend yield in percent")
	cmd.Flags().Float64Var(&p.PriceGrowth, "price-growth", 0, "annual price growth in percent")
	cmd.Flags().IntVar(&p.Years, "years", 10, "investment horizon in years")

	return cmd
}

func stockCmd() *cobra.Command {
	p := &models.StockParameters{}
	var seed int64

	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Run a Monte Carlo equity simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Normalize()

			var rng *rand.Rand
			if seed != 0 {
				rng = rand.New(rand.NewSource(seed))
			}
			result, err := engine.RunWithRand(&models.Parameters{
				Type:  models.InvestmentStock,
				Stock: p,
			}, rng)
			if err != nil {
				return err
			}
			return printResult(result)
		},
	}

	cmd.Flags().Float64Var(&p.InitialAmount, "initial", 0, "initial investment")
	cmd.Flags().Float64Var(&p.MonthlyAmount, "annual-topup", 0, "annual lump top-up")
	cmd.Flags().Float64Var(&p.ExpectedReturn, "expected-return", 0, "expected annual return in percent")
	cmd.Flags().Float64Var(&p.Volatility, "volatility", 0, "annual volatility in percent")
	cmd.Flags().IntVar(&p.Years, "years", 10, "investment horizon in years")
	cmd.Flags().IntVar(&p.Simulations, "simulations", models.DefaultStockSimulations, "number of Monte Carlo trials")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible runs (0 = time-based)")

	return cmd
}

func bondCmd() *cobra.Command {
	p := &models.BondDepositParameters{}
	var simple bool
	var inflation float64

	cmd := &cobra.Command{
		Use:   "bond",
		Short: "Calculate a fixed-income investment",
		RunE: func(cmd *cobra.Command, args []string) error {
			compound := !simple
			p.IsCompound = &compound
			if cmd.Flags().Changed("inflation") {
				p.InflationRate = &inflation
			}
			result, err := engine.Run(&models.Parameters{
				Type: models.InvestmentBondDeposit,
				Bond: p,
			})
			if err != nil {
				return err
			}
			return printResult(result)
		},
	}

	cmd.Flags().Float64Var(&p.Principal, "principal", 0, "principal amount")
	cmd.Flags().Float64Var(&p.InterestRate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&p.Years, "years", 5, "term in years")
	cmd.Flags().BoolVar(&simple, "simple", false, "use simple instead of compound interest")
	cmd.Flags().Float64Var(&inflation, "inflation", models.DefaultInflationRate, "annual inflation rate in percent")
	_ = cmd.MarkFlagRequired("principal")

	return cmd
}
