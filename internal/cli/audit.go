package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openomi/pof-auditor/internal/export"
	"github.com/openomi/pof-auditor/internal/handlers"
	"github.com/openomi/pof-auditor/internal/models"
)

var (
	auditProgram    string
	auditFamilySize int
	auditExport     string
	auditOut        string
)

var auditCmd = &cobra.Command{
	Use:   "audit <files...>",
	Short: "Run one audit on local files without the HTTP server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs := make([]models.UploadedDocument, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			name := filepath.Base(path)
			contentType, err := handlers.ValidateDocument(name, data)
			if err != nil {
				return fmt.Errorf("validate %s: %w", path, err)
			}

			docs = append(docs, models.UploadedDocument{
				OriginalName: name,
				ContentType:  contentType,
				Data:         data,
			})
		}

		req := models.AuditRequest{
			ProgramCode: auditProgram,
			FamilySize:  auditFamilySize,
		}

		result, err := svc.Run(context.Background(), docs, req)
		if err != nil {
			return fmt.Errorf("audit: %w", err)
		}

		fmt.Println(result.ReportText)
		fmt.Println()
		fmt.Printf("Verdict: %s (%d red flags, %d documents, %.1fs)\n",
			result.Verdict, result.RedFlagCount, result.DocumentCount, result.ElapsedSeconds)

		if auditOut == "" {
			return nil
		}

		format := export.Format(auditExport)
		data, err := export.Render(result, format)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := os.WriteFile(auditOut, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", auditOut, err)
		}

		fmt.Printf("Exported %s result to %s\n", format, auditOut)
		return nil
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditProgram, "program", "", "immigration program code (required)")
	auditCmd.Flags().IntVar(&auditFamilySize, "family-size", 1, "applicant family size")
	auditCmd.Flags().StringVar(&auditExport, "export", "json", "export format: json, text or xlsx")
	auditCmd.Flags().StringVar(&auditOut, "out", "", "write the export to this file")
	_ = auditCmd.MarkFlagRequired("program")
}
