package main

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/capsim/internal/compute"
)

func TestExecute_ReleasesBackendOnFailure(t *testing.T) {
	var resolver *compute.Resolver
	failed := errors.New("run failed")

	root := &cobra.Command{
		Use:               "capsim",
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver = app.resolver
			if s := app.engine.Status(cmd.Context()); s.State != compute.StatePure {
				t.Errorf("expected pure backend, got %v", s.State)
			}
			return failed
		},
	}
	root.PersistentFlags().StringVar(&backendMode, "backend", "auto", "")
	root.SetArgs([]string{"--backend", "pure"})

	if err := execute(context.Background(), root); !errors.Is(err, failed) {
		t.Fatalf("expected run error, got %v", err)
	}
	if resolver == nil {
		t.Fatal("command did not run")
	}
	if s := resolver.Status(); s.State != compute.StateUnresolved {
		t.Errorf("backend not released after failure: %v", s.State)
	}
	if app.resolver != nil {
		t.Error("expected resolver to be cleared")
	}

	teardown()
}
