package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/fingerprint"
)

var hashCmd = &cobra.Command{
	Use:   "hash <file>",
	Short: "Fingerprint a document",
	Long:  `Compute the fingerprint that would be recorded for a document, without uploading it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHash,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Pin a document and record its fingerprint",
	Long: `Pin a document to IPFS and record its fingerprint and content identifier
on the registry contract with the connected account.

Progress is printed as the transaction moves through its lifecycle. Once
confirmed, the receipt and the verification URL are shown. Use --qr-out to
also write the verification QR code as a PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <file>",
	Short: "Remove a document's fingerprint from the ledger",
	Long: `Remove a previously recorded fingerprint. Only the account that recorded it
can delete it; the ledger's rejection message is shown otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file|0xhash>",
	Short: "Check a document against the ledger",
	Long: `Look up a document on the ledger, either by file or by its 0x-prefixed fingerprint.

Prints who recorded it, when, and where the pinned copy can be fetched.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	uploadCmd.Flags().String("qr-out", "", "write the verification QR code to this PNG file")
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(verifyCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("orchestrator not configured")
	}
	sel, err := selectDocument(cmd, args[0])
	if err != nil {
		return err
	}
	cmd.Printf("File:        %s (%d bytes)\n", sel.Name, sel.Size)
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("orchestrator not configured")
	}
	qrOut, err := cmd.Flags().GetString("qr-out")
	if err != nil {
		return fmt.Errorf("getting qr-out flag: %w", err)
	}

	if _, err := selectDocument(cmd, args[0]); err != nil {
		return err
	}

	sess, err := orchestrator.Upload(cmd.Context(), printTransition(cmd))
	if err != nil {
		return err
	}

	printReceipt(cmd, sess)
	if sess.ContentID != "" {
		cmd.Printf("Content ID:   %s\n", sess.ContentID)
		if verificationService != nil {
			cmd.Printf("Document:     %s\n", verificationService.GatewayURL(sess.ContentID))
		}
	}
	if sess.VerifyURL != "" {
		cmd.Printf("Verify:       %s\n", sess.VerifyURL)
	}
	if sess.Balance != "" {
		cmd.Printf("Balance:      %s\n", sess.Balance)
	}

	if qrOut != "" {
		if len(sess.QRCode) == 0 {
			cmd.Println("Warning: no QR code was produced")
			return nil
		}
		if err := os.WriteFile(qrOut, sess.QRCode, 0o644); err != nil { //nolint:gosec // G306: the QR code is public
			return fmt.Errorf("write QR code: %w", err)
		}
		cmd.Printf("QR code:      %s\n", qrOut)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("orchestrator not configured")
	}
	if _, err := selectDocument(cmd, args[0]); err != nil {
		return err
	}

	sess, err := orchestrator.Delete(cmd.Context(), printTransition(cmd))
	if err != nil {
		return err
	}
	printReceipt(cmd, sess)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	if verificationService == nil {
		return errors.New("verification service not configured")
	}

	fp, err := resolveFingerprint(args[0])
	if err != nil {
		return err
	}

	rec, err := verificationService.Lookup(cmd.Context(), fp)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	cmd.Printf("Fingerprint: %s\n", fp.Hex())
	if !rec.Exists() {
		cmd.Println("Document Not Found")
		return nil
	}

	cmd.Println("Document Verified Successfully")
	cmd.Printf("Exporter:    %s\n", rec.ExporterInfo)
	cmd.Printf("Block:       %d\n", rec.BlockNumber)
	if rec.Timestamp > 0 {
		cmd.Printf("Recorded:    %s\n", time.Unix(int64(rec.Timestamp), 0).UTC().Format(time.RFC1123))
	}
	if rec.ContentID != "" {
		cmd.Printf("Document:    %s\n", verificationService.GatewayURL(rec.ContentID))
	}
	cmd.Printf("Verify:      %s\n", verificationService.URL(fp))
	return nil
}

// selectDocument reads path and hands it to the orchestrator.
func selectDocument(cmd *cobra.Command, path string) (*domain.FileSelection, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	cmd.Println(domain.PhaseHashing.Note())
	sel, err := orchestrator.SelectFile(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return nil, err
	}

	cmd.Println(domain.PhaseReady.Note())
	cmd.Printf("Fingerprint: %s\n", sel.Fingerprint.Hex())
	if sel.Lossy {
		cmd.Println("Warning: the document is not UTF-8 text; its fingerprint is lossy")
	}
	return sel, nil
}

// resolveFingerprint accepts a 0x fingerprint or a file to hash.
func resolveFingerprint(arg string) (domain.Fingerprint, error) {
	if fp, err := domain.ParseFingerprint(arg); err == nil {
		if _, statErr := os.Stat(arg); statErr != nil {
			return fp, nil
		}
	}

	data, err := readDocument(arg)
	if err != nil {
		return domain.Fingerprint{}, err
	}

	mode := domain.FingerprintText
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			mode = settings.Fingerprint
		}
	}
	res, err := fingerprint.ComputeMode(mode, data)
	if err != nil {
		return domain.Fingerprint{}, domain.Precondition(err)
	}
	return res.Fingerprint, nil
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.Precondition(fmt.Errorf("%s: %w", path, domain.ErrNoDocument))
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// printTransition prints the lifecycle notes of a running submission.
// Failures are reported by the caller.
func printTransition(cmd *cobra.Command) domain.Observer {
	return func(t domain.Transition) {
		switch t.To {
		case domain.PhaseUploading, domain.PhaseAwaitingSignature, domain.PhaseConfirmed:
			cmd.Println(t.Note())
		case domain.PhasePending:
			cmd.Println(t.Note())
			if t.TxHash != "" {
				cmd.Printf("Transaction: %s\n", t.TxHash)
			}
		}
	}
}

func printReceipt(cmd *cobra.Command, sess *domain.UploadSession) {
	r := sess.Receipt
	if r == nil {
		return
	}
	cmd.Printf("Block Number: %d\n", r.BlockNumber)
	cmd.Printf("Block Hash:   %s\n", r.BlockHash)
	cmd.Printf("Gas Used:     %d\n", r.GasUsed)
	cmd.Printf("Contract:     %s\n", r.ContractAddress)
	cmd.Printf("From:         %s\n", r.From)
	if verificationService != nil {
		cmd.Printf("Transaction:  %s\n", verificationService.TxURL(r.TxHash))
	} else {
		cmd.Printf("Transaction:  %s\n", r.TxHash)
	}
}
