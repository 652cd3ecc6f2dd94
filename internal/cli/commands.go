package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ticketboard/internal/model"
)

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// withBoard opens the board, runs fn and closes the store.
func (o *RootOptions) withBoard(cmd *cobra.Command, fn func(s *session, f *OutputFormatter) error) error {
	f := o.formatter(cmd)
	s, err := o.openBoard(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}
	defer s.close()
	return fn(s, f)
}

func parseTicketID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid ticket id %q", arg))
	}
	return id, nil
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the board and its default columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withBoard(cmd, func(s *session, f *OutputFormatter) error {
				where := s.cfg.Store.Path
				if s.cfg.Store.Driver != "sqlite" {
					where = s.cfg.Store.Driver
				}
				if f.Format == "json" {
					return f.Success(map[string]any{"store": where, "lists": s.board.ListIDs()})
				}
				return f.Success(fmt.Sprintf("board ready at %s (%s)", where, strings.Join(s.board.ListIDs(), ", ")))
			})
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withBoard(cmd, func(s *session, f *OutputFormatter) error {
				snap := s.board.Snapshot()
				return f.Result(snap, RenderBoard(snap))
			})
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <list> <title...>",
		Short: "Append a ticket to a list",
		Example: `  ticketboard add todo Write the release notes
  ticketboard add in-progress "Fix login" -d "Users get logged out after 5 minutes"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, title := args[0], strings.Join(args[1:], " ")
			return rootOpts.withBoard(cmd, func(s *session, f *OutputFormatter) error {
				id, err := s.board.AddTicket(cmd.Context(), listID, title, description)
				if err != nil {
					return f.Fail(ExitFailure, err)
				}
				if id == 0 {
					_ = f.Error(ErrCodeInvalid, "title must not be empty", nil)
					return NewExitError(ExitCommandError, "title must not be empty")
				}
				t, _, _ := s.board.Snapshot().Find(id)
				if f.Format == "json" {
					return f.Success(t)
				}
				return f.Success(fmt.Sprintf("added #%d to %s at position %d", id, listID, t.Order))
			})
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "ticket description")
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a ticket's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			var patch model.TicketPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if patch.Empty() {
				return NewExitError(ExitCommandError, "nothing to update: pass --title or --description")
			}

			return rootOpts.withBoard(cmd, func(s *session, f *OutputFormatter) error {
				if err := s.board.UpdateTicket(cmd.Context(), id, patch); err != nil {
					return f.Fail(ExitFailure, err)
				}
				t, _, _ := s.board.Snapshot().Find(id)
				if f.Format == "json" {
					return f.Success(t)
				}
				return f.Success(fmt.Sprintf("updated #%d", id))
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a ticket and close the gap it leaves",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			return rootOpts.withBoard(cmd, func(s *session, f *OutputFormatter) error {
				if err := s.board.DeleteTicket(cmd.Context(), id); err != nil {
					return f.Fail(ExitFailure, err)
				}
				if f.Format == "json" {
					return f.Success(map[string]int64{"deleted": id})
				}
				return f.Success(fmt.Sprintf("deleted #%d", id))
			})
		},
	}
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <list> <index>",
		Short: "Move a ticket to a position in a list",
		Long: `Move a ticket to a zero-based position in a list. The list may be the
ticket's current one. Positions past the end append.`,
		Example: `  ticketboard move 4 done 0
  ticketboard move 4 todo 2`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[2])
			if err != nil || index < 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid index %q", args[2]))
			}
			return rootOpts.withBoard(cmd, func(s *session, f *OutputFormatter) error {
				if err := s.board.MoveTicketTo(cmd.Context(), id, args[1], index); err != nil {
					return f.Fail(ExitFailure, err)
				}
				t, _, ok := s.board.Snapshot().Find(id)
				if !ok {
					_ = f.Error(ErrCodeNotFound, fmt.Sprintf("ticket #%d not found", id), nil)
					return NewExitError(ExitFailure, "ticket not found")
				}
				if f.Format == "json" {
					return f.Success(t)
				}
				return f.Success(fmt.Sprintf("#%d is now in %s at position %d", id, t.ListID, t.Order))
			})
		},
	}
}

// NewReorderCommand creates the reorder command.
func NewReorderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <list> <id...>",
		Short: "Set the full order of a list",
		Long:  "Rewrite a list's order. Every ticket in the list must be named exactly once.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args)-1)
			for _, a := range args[1:] {
				id, err := parseTicketID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return rootOpts.withBoard(cmd, func(s *session, f *OutputFormatter) error {
				if err := s.board.ReorderList(cmd.Context(), args[0], ids); err != nil {
					return f.Fail(ExitFailure, err)
				}
				if f.Format == "json" {
					return f.Success(s.board.Tickets(args[0]))
				}
				return f.Success(fmt.Sprintf("reordered %s", args[0]))
			})
		},
	}
}
