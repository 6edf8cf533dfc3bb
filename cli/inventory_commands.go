package cli

import (
	"context"
	"fmt"
	"lending/models"
	inventoryservice "lending/services/inventory"
	"lending/utils"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func dashboardCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summary of equipment and your requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			d, err := a.Inventory.Dashboard(ctx)
			if err != nil {
				return err
			}
			state := a.Inventory.State()
			degradedNotice(a.Out, state.Degraded, state.LastSync)
			fmt.Fprintf(a.Out, "Hello %s\n", d.User.Username)
			fmt.Fprintf(a.Out, "Equipment: %d items, %d with units available\n", d.TotalEquipment, d.AvailableEquipment)
			fmt.Fprintf(a.Out, "Your pending requests: %d\n", len(d.MyPending))
			fmt.Fprintf(a.Out, "Your approved requests: %d\n", len(d.MyApproved))
			if d.PendingApprovals != nil {
				fmt.Fprintf(a.Out, "Waiting for approval: %d\n", len(d.PendingApprovals))
				printRequests(a.Out, d.PendingApprovals)
			}
			return nil
		},
	}
}

func equipmentCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equipment",
		Short: "List and manage equipment",
	}
	cmd.AddCommand(equipmentListCommand(app), equipmentAddCommand(app), equipmentUpdateCommand(app), equipmentDeleteCommand(app))
	return cmd
}

func equipmentListCommand(app func() *App) *cobra.Command {
	var filter inventoryservice.EquipmentFilter
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List equipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			if category != "" {
				if !utils.IsCategoryValid(category) {
					return errors.Errorf("unknown category %q", category)
				}
				filter.Category = models.Category(category)
			}
			items, err := a.Inventory.Equipment(ctx, filter)
			if err != nil {
				return err
			}
			state := a.Inventory.State()
			degradedNotice(a.Out, state.Degraded, state.LastSync)
			printEquipment(a.Out, items)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Search, "search", "", "match name or description")
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().BoolVar(&filter.AvailableOnly, "available", false, "only items with units available")
	return cmd
}

func equipmentAddCommand(app func() *App) *cobra.Command {
	var in inventoryservice.EquipmentInput
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add equipment (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			in.Name = args[0]
			created, err := a.Inventory.AddEquipment(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "Added %s as equipment %d\n", created.Name, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Category, "category", string(models.CategoryOther), "category")
	cmd.Flags().StringVar(&in.Condition, "condition", string(models.ConditionGood), "condition")
	cmd.Flags().IntVar(&in.Quantity, "quantity", 1, "total units")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	return cmd
}

func equipmentUpdateCommand(app func() *App) *cobra.Command {
	var (
		name, category, condition, description string
		quantity                               int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change equipment fields (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			var in inventoryservice.EquipmentUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("category") {
				in.Category = &category
			}
			if flags.Changed("condition") {
				in.Condition = &condition
			}
			if flags.Changed("quantity") {
				in.Quantity = &quantity
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			updated, err := a.Inventory.UpdateEquipment(ctx, id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "Updated %s: %d/%d available\n", updated.Name, updated.Available, updated.Quantity)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&condition, "condition", "", "new condition")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new total units")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func equipmentDeleteCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete equipment (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Inventory.DeleteEquipment(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "Deleted equipment %d\n", id)
			return nil
		},
	}
}

func availabilityCommand(app func() *App) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "availability <equipment-id>",
		Short: "Check whether equipment can be borrowed for a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			from, until, err := parseRange(start, end)
			if err != nil {
				return err
			}
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := a.Inventory.Availability(ctx, id, from, until)
			if err != nil {
				return err
			}
			verdict := "available"
			if !ok {
				verdict = "not available"
			}
			fmt.Fprintf(a.Out, "Equipment %d is %s from %s to %s\n", id, verdict, dateLabel(from), dateLabel(until))
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func requestCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "request",
		Aliases: []string{"requests"},
		Short:   "List, submit and process borrow requests",
	}
	cmd.AddCommand(
		requestListCommand(app),
		requestCreateCommand(app),
		transitionCommand(app, "approve", "approved", inventoryservice.InventoryService.Approve),
		transitionCommand(app, "reject", "rejected", inventoryservice.InventoryService.Reject),
		transitionCommand(app, "return", "marked returned", inventoryservice.InventoryService.MarkReturned),
	)
	return cmd
}

func requestListCommand(app func() *App) *cobra.Command {
	var status string
	var filter inventoryservice.RequestFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requests (borrowers see their own)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			filter.Status = models.Status(status)
			if status != "" && !filter.Status.Valid() {
				return errors.Errorf("unknown status %q", status)
			}
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			items, err := a.Inventory.Requests(ctx, filter)
			if err != nil {
				return err
			}
			state := a.Inventory.State()
			degradedNotice(a.Out, state.Degraded, state.LastSync)
			printRequests(a.Out, items)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "pending, approved, rejected or returned")
	cmd.Flags().Int64Var(&filter.EquipmentID, "equipment", 0, "only requests for this equipment")
	return cmd
}

func requestCreateCommand(app func() *App) *cobra.Command {
	var start, end string
	var in inventoryservice.CreateRequestInput
	cmd := &cobra.Command{
		Use:   "create <equipment-id>",
		Short: "Ask to borrow equipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in.EquipmentID = id
			if in.StartDate, in.EndDate, err = parseRange(start, end); err != nil {
				return err
			}
			if start == "" {
				in.StartDate = time.Time{}
			}
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			created, err := a.Inventory.CreateRequest(ctx, in)
			if err != nil {
				return err
			}
			printRequest(a.Out, "submitted", created)
			return nil
		},
	}
	cmd.Flags().IntVar(&in.Quantity, "quantity", 1, "units to borrow")
	cmd.Flags().StringVar(&start, "start", "", "borrow date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "return date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Purpose, "purpose", "", "what the equipment is for")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

type transitionFunc func(inventoryservice.InventoryService, context.Context, int64) (models.BorrowRequest, error)

func transitionCommand(app func() *App, verb, past string, fn transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <request-id>",
		Short: "Mark a request " + past + " (admin, lab assistant)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			updated, err := fn(a.Inventory, ctx, id)
			if err != nil {
				return err
			}
			printRequest(a.Out, past, updated)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parseRange reads the date flags. An empty start means today.
func parseRange(start, end string) (time.Time, time.Time, error) {
	from := time.Now()
	if start != "" {
		var err error
		if from, err = utils.ParseDate(start); err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(err, "invalid --start")
		}
	}
	until, err := utils.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(err, "invalid --end")
	}
	if models.CivilDate(until).Before(models.CivilDate(from)) {
		return time.Time{}, time.Time{}, errors.New("--end cannot be before --start")
	}
	return models.CivilDate(from), models.CivilDate(until), nil
}
