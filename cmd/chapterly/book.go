package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chapterly/internal/bootstrap"
	librarydto "chapterly/internal/modules/library/dto"
)

func newBookCmd(homePath *string) *cobra.Command {
	book := &cobra.Command{Use: "book", Short: "Manage the library"}

	var add librarydto.AddBookInput
	var audiobook string
	addCmd := &cobra.Command{
		Use:   "add --title <title>",
		Short: "Add a book by hand",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if strings.TrimSpace(add.Title) == "" {
				return fmt.Errorf("--title is required")
			}
			if audiobook != "" {
				d, err := time.ParseDuration(audiobook)
				if err != nil {
					return fmt.Errorf("--audiobook-duration: %w", err)
				}
				add.AudiobookDuration = d
			}
			out, err := app.LibraryCLI.AddBook(cmd.Context(), add)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) status=%s\n", out.Title, out.ID, out.Status)
			return nil
		}),
	}
	addCmd.Flags().StringVar(&add.Title, "title", "", "book title")
	addCmd.Flags().StringVar(&add.Author, "author", "", "author")
	addCmd.Flags().StringVar(&add.Status, "status", "library", "library|to-be-read|completed|wishlist|audiobook")
	addCmd.Flags().StringVar(&add.Mood, "mood", "", "reading mood")
	addCmd.Flags().IntVar(&add.PageCount, "pages", 0, "page count")
	addCmd.Flags().StringVar(&add.ISBN, "isbn", "", "ISBN")
	addCmd.Flags().StringVar(&add.PublishDate, "published", "", "publish date")
	addCmd.Flags().StringVar(&add.Categories, "categories", "", "comma separated categories")
	addCmd.Flags().StringVar(&add.Narrator, "narrator", "", "audiobook narrator")
	addCmd.Flags().StringVar(&audiobook, "audiobook-duration", "", "audiobook length, e.g. 11h30m")
	book.AddCommand(addCmd)

	var pdfTitle, pdfStatus string
	importCmd := &cobra.Command{
		Use:   "import-pdf <path>",
		Short: "Add a book from a PDF's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.LibraryCLI.ImportPDF(cmd.Context(), args[0], pdfTitle, pdfStatus)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s by %s (%s)\n", out.Title, orUnknown(out.Author), out.ID)
			return nil
		}),
	}
	importCmd.Flags().StringVar(&pdfTitle, "title", "", "override the title found in the PDF")
	importCmd.Flags().StringVar(&pdfStatus, "status", "library", "status for the new book")
	book.AddCommand(importCmd)

	var isbn, lookupStatus string
	var limit, pick int
	lookupCmd := &cobra.Command{
		Use:   "lookup [query]",
		Short: "Search the book catalog, optionally adding a result",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" && strings.TrimSpace(isbn) == "" {
				return fmt.Errorf("a query or --isbn is required")
			}
			results, err := app.LibraryCLI.Lookup(cmd.Context(), query, isbn, limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no results")
				return nil
			}
			if pick > 0 {
				if pick > len(results) {
					return fmt.Errorf("--add %d out of range (%d results)", pick, len(results))
				}
				out, err := app.LibraryCLI.AddFromCatalog(cmd.Context(), results[pick-1], lookupStatus)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) cover=%t\n", out.Title, out.ID, out.HasCover)
				return nil
			}
			for i, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s by %s", i+1, r.Title, orUnknown(strings.Join(r.Authors, ", ")))
				if r.ISBN != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " isbn=%s", r.ISBN)
				}
				if r.PageCount > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " pages=%d", r.PageCount)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		}),
	}
	lookupCmd.Flags().StringVar(&isbn, "isbn", "", "look up by ISBN")
	lookupCmd.Flags().IntVar(&limit, "limit", 10, "maximum results")
	lookupCmd.Flags().IntVar(&pick, "add", 0, "add the n-th result to the library")
	lookupCmd.Flags().StringVar(&lookupStatus, "status", "library", "status for an added result")
	book.AddCommand(lookupCmd)

	var genres, moods []string
	var recLimit, recPick int
	var recStatus string
	recommendCmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest catalog books for the chosen genres and moods",
		Example: `  chapterly book recommend --genre fantasy --mood adventurous
  chapterly book recommend --genre mystery --add 2 --status wishlist`,
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			recs, err := app.LibraryCLI.Recommend(cmd.Context(), genres, moods, recLimit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(recs) == 0 {
				_, _ = fmt.Fprintln(w, "no recommendations, try other genres or moods")
				return nil
			}
			if recPick > 0 {
				if recPick > len(recs) {
					return fmt.Errorf("--add %d out of range (%d recommendations)", recPick, len(recs))
				}
				out, err := app.LibraryCLI.AddFromCatalog(cmd.Context(), recs[recPick-1].Result, recStatus)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "added %s (%s) cover=%t\n", out.Title, out.ID, out.HasCover)
				return nil
			}
			for i, rec := range recs {
				r := rec.Result
				_, _ = fmt.Fprintf(w, "%2d. %s by %s  rating=%.1f pages=%d match=%d\n",
					i+1, r.Title, orUnknown(strings.Join(r.Authors, ", ")), r.AverageRating, r.PageCount, rec.Score)
			}
			return nil
		}),
	}
	recommendCmd.Flags().StringSliceVar(&genres, "genre", nil, "preferred genre, repeatable (fantasy, science_fiction, mystery, ...)")
	recommendCmd.Flags().StringSliceVar(&moods, "mood", nil, "preferred mood, repeatable (adventurous, relaxing, ...)")
	recommendCmd.Flags().IntVar(&recLimit, "limit", 20, "maximum recommendations")
	recommendCmd.Flags().IntVar(&recPick, "add", 0, "add the n-th recommendation to the library")
	recommendCmd.Flags().StringVar(&recStatus, "status", "wishlist", "status for an added recommendation")
	book.AddCommand(recommendCmd)

	var listStatus string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List books",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			books, err := app.LibraryCLI.ListBooks(cmd.Context(), listStatus)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no books")
				return nil
			}
			for _, b := range books {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%.2fh\tadded %s\n",
					b.ID, b.Status, b.Title, orUnknown(b.Author), b.TotalReadingTime, humanize.Time(b.DateAdded))
			}
			return nil
		}),
	}
	listCmd.Flags().StringVar(&listStatus, "status", "", "only books with this status")
	book.AddCommand(listCmd)

	book.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show book details",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			b, err := app.LibraryCLI.GetBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "id: %s\ntitle: %s\nauthor: %s\nstatus: %s\ngenre: %s\n", b.ID, b.Title, orUnknown(b.Author), b.StatusLabel, b.Genre)
			_, _ = fmt.Fprintf(w, "reading time: %.2fh\nadded: %s\n", b.TotalReadingTime, b.DateAdded.Format(time.DateOnly))
			if b.PageCount > 0 {
				_, _ = fmt.Fprintf(w, "pages: %d\n", b.PageCount)
			}
			if b.ISBN != "" {
				_, _ = fmt.Fprintf(w, "isbn: %s\n", b.ISBN)
			}
			if b.Rating > 0 {
				_, _ = fmt.Fprintf(w, "rating: %d/5\n", b.Rating)
			}
			if b.Mood != "" {
				_, _ = fmt.Fprintf(w, "mood: %s\n", b.Mood)
			}
			if b.Narrator != "" {
				_, _ = fmt.Fprintf(w, "narrator: %s\n", b.Narrator)
			}
			if b.AudiobookDuration > 0 {
				_, _ = fmt.Fprintf(w, "length: %s\n", b.AudiobookDuration)
			}
			if len(b.CoverImage) > 0 {
				_, _ = fmt.Fprintf(w, "cover: %s\n", humanize.Bytes(uint64(len(b.CoverImage))))
			}
			if b.Notes != "" {
				_, _ = fmt.Fprintf(w, "notes: %s\n", b.Notes)
			}
			return nil
		}),
	})

	book.AddCommand(&cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a book to another status",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.LibraryCLI.UpdateStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", out.Title, out.Status)
			return nil
		}),
	})

	var rating int
	var notes, mood string
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit rating, notes or mood",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			input := librarydto.UpdateDetailsInput{BookID: args[0]}
			if cmd.Flags().Changed("rating") {
				input.Rating = &rating
			}
			if cmd.Flags().Changed("notes") {
				input.Notes = &notes
			}
			if cmd.Flags().Changed("mood") {
				input.Mood = &mood
			}
			out, err := app.LibraryCLI.UpdateDetails(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s rating=%d mood=%s\n", out.Title, out.Rating, out.Mood)
			return nil
		}),
	}
	editCmd.Flags().IntVar(&rating, "rating", 0, "rating 0..5")
	editCmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	editCmd.Flags().StringVar(&mood, "mood", "", "reading mood")
	book.AddCommand(editCmd)

	book.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a book; its sessions stay in the log",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			if err := app.LibraryCLI.RemoveBook(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		}),
	})

	book.AddCommand(&cobra.Command{
		Use:   "reset-time <id>",
		Short: "Reset a book's total reading time to zero",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(homePath, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			if err := app.LibraryCLI.ResetReadingTime(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reading time reset for %s\n", args[0])
			return nil
		}),
	})

	return book
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
