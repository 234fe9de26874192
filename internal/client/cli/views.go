package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/client/services"
	"github.com/aydevelopers/adminconsole/internal/filex"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// getOptionalText is a test seam for GetOptionalText.
var getOptionalText = GetOptionalText

// imageDataURL is a test seam for filex.ImageDataURL.
var imageDataURL = filex.ImageDataURL

const dateLayout = "2006-01-02 15:04"

func roleLabel(r models.Role) string {
	if r == "" {
		return "unknown role"
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func (a *App) printTable(headers []string, rows [][]string, empty string) {
	if len(rows) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	fmt.Fprintln(a.out, renderTable(headers, rows))
}

// fetchFailed reports a failed listing; the view stays empty.
func (a *App) fetchFailed(ctx context.Context, what string, err error) error {
	if ctx.Err() != nil {
		return err
	}
	a.logger.Warn(ctx, "fetch failed", "view", what, "error", err)
	a.notifier.Error("Error", userMessage(err, "Failed to fetch "+what))
	return err
}

func (a *App) printProfile(p models.Profile) {
	rows := [][]string{
		{"ID", p.ID},
		{"Name", orDash(p.FullName())},
		{"Email", orDash(p.Email)},
		{"Phone", orDash(p.Phone)},
		{"Role", roleLabel(p.Role)},
		{"Country", orDash(p.Country)},
		{"State", orDash(p.State)},
	}
	if p.Photo != "" {
		rows = append(rows, []string{"Photo", "set"})
	}
	fmt.Fprintln(a.out, renderTable([]string{"Field", "Value"}, rows))
}

// Whoami shows the cached profile of the signed-in user.
func (a *App) Whoami(ctx context.Context) error {
	return a.guard.Run(ctx, "whoami", func(ctx context.Context, p models.Profile) error {
		a.printProfile(p)
		return nil
	})
}

// Refresh re-reads the signed-in user from the backend and updates the cache.
func (a *App) Refresh(ctx context.Context) error {
	return a.guard.Run(ctx, "refresh", func(ctx context.Context, _ models.Profile) error {
		p, err := a.auth.RefreshProfile(ctx)
		if err != nil {
			a.logger.Warn(ctx, "profile refresh failed", "error", err)
			a.notifier.Error("Error", "Failed to load user data")
			return err
		}
		a.setUserName(p.Email)
		a.printProfile(p)
		return nil
	})
}

// EditProfile prompts for each editable field, showing the current value;
// empty answers keep it.
func (a *App) EditProfile(ctx context.Context) error {
	return a.guard.Run(ctx, "edit", func(ctx context.Context, p models.Profile) error {
		var upd models.ProfileUpdate
		fields := []struct {
			prompt  string
			current string
			dst     *string
		}{
			{"First name", p.FirstName, &upd.FirstName},
			{"Last name", p.LastName, &upd.LastName},
			{"Email", p.Email, &upd.Email},
			{"Phone", p.Phone, &upd.Phone},
			{"Country", p.Country, &upd.Country},
			{"State", p.State, &upd.State},
		}
		for _, f := range fields {
			v, err := getOptionalText(a.reader, f.prompt, f.current, a.out)
			if err != nil {
				return err
			}
			*f.dst = v
		}

		path, err := getSimpleText(a.reader, "Photo file (empty to keep)", a.out)
		if err != nil {
			return err
		}
		if path != "" {
			photo, err := imageDataURL(path, filex.MaxImageSize)
			if err != nil {
				a.reportPhotoError(err)
				return err
			}
			upd.Photo = photo
		}

		if upd == (models.ProfileUpdate{}) {
			printlnFn("Nothing to update.")
			return nil
		}

		updated, err := a.auth.UpdateProfile(ctx, upd)
		if err != nil {
			a.logger.Warn(ctx, "profile update failed", "error", err)
			a.notifier.Error("Update Failed", userMessage(err, "Failed to update profile"))
			return err
		}
		a.setUserName(updated.Email)
		a.notifier.Success("Success!", "Profile updated successfully.")
		a.printProfile(updated)
		return nil
	})
}

func (a *App) reportPhotoError(err error) {
	var tooLarge *filex.TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		a.notifier.Error("File too large", fmt.Sprintf(
			"File too large! Image size is %dKB. Please select an image smaller than %dKB.",
			(tooLarge.Size+512)/1024, tooLarge.Limit/1024))
	case errors.Is(err, filex.ErrNotImage):
		a.notifier.Error("Invalid file type", "You can only upload image files!")
	default:
		a.notifier.Error("Upload failed", "Failed to process the image. Please try again.")
	}
}

// Session shows the local session and what the stored access token claims.
func (a *App) Session(ctx context.Context) error {
	return a.guard.Run(ctx, "session", func(ctx context.Context, p models.Profile) error {
		rows := [][]string{
			{"User", p.Email},
			{"Session", a.monitor.SessionID()},
			{"State", a.monitor.State().String()},
			{"Idle timeout", a.monitor.IdleTimeout().String()},
			{"Expires in", a.monitor.Remaining().Round(time.Second).String()},
		}

		info, err := a.auth.TokenInfo(ctx)
		switch {
		case errors.Is(err, services.ErrNoToken):
			rows = append(rows, []string{"Token", "none"})
		case err != nil:
			a.logger.Warn(ctx, "stored token unreadable", "error", err)
			rows = append(rows, []string{"Token", "unreadable"})
		default:
			rows = append(rows, []string{"Token subject", orDash(info.Subject)})
			if info.IssuedAt != nil {
				rows = append(rows, []string{"Token issued", formatTime(*info.IssuedAt)})
			}
			if info.ExpiresAt != nil {
				rows = append(rows, []string{"Token expires", formatTime(*info.ExpiresAt)})
			}
		}

		fmt.Fprintln(a.out, renderTable([]string{"Field", "Value"}, rows))
		return nil
	})
}

// Users lists platform users; an empty role lists everyone.
func (a *App) Users(ctx context.Context, role models.Role) error {
	view := "users"
	if role != "" {
		view = string(role) + "s"
	}
	return a.guard.Run(ctx, view, func(ctx context.Context, _ models.Profile) error {
		users, err := a.directory.Users(ctx, role)
		if err != nil {
			return a.fetchFailed(ctx, view, err)
		}

		rows := make([][]string, 0, len(users))
		for _, u := range users {
			status := string(u.Status)
			if u.Suspended {
				status = string(models.StatusSuspended)
			}
			rows = append(rows, []string{
				u.Identifier(),
				strings.TrimSpace(u.FirstName + " " + u.LastName),
				u.Email,
				orDash(u.Phone),
				roleLabel(u.Role),
				orDash(status),
			})
		}
		a.printTable([]string{"ID", "Name", "Email", "Phone", "Role", "Status"}, rows, "No users found.")
		return nil
	})
}

func (a *App) Products(ctx context.Context) error {
	return a.guard.Run(ctx, "products", func(ctx context.Context, _ models.Profile) error {
		products, err := a.directory.Products(ctx)
		if err != nil {
			return a.fetchFailed(ctx, "products", err)
		}

		rows := make([][]string, 0, len(products))
		for _, p := range products {
			rows = append(rows, []string{p.ID, p.Name, formatMoney(p.Price), orDash(p.Status), formatTime(p.CreatedDate)})
		}
		a.printTable([]string{"ID", "Name", "Price", "Status", "Created"}, rows, "No products found.")
		return nil
	})
}

// Tickets lists support tickets, open ones first.
func (a *App) Tickets(ctx context.Context) error {
	return a.guard.Run(ctx, "tickets", func(ctx context.Context, _ models.Profile) error {
		tickets, err := a.directory.Tickets(ctx)
		if err != nil {
			return a.fetchFailed(ctx, "tickets", err)
		}

		rows := make([][]string, 0, len(tickets))
		for _, t := range tickets {
			id := t.TicketID
			if id == "" {
				id = t.ID
			}
			rows = append(rows, []string{
				id,
				orDash(t.Subject),
				orDash(t.Name),
				string(t.Status),
				orDash(t.Priority),
				formatTime(t.CreatedAt),
			})
		}
		a.printTable([]string{"Ticket", "Subject", "From", "Status", "Priority", "Created"}, rows, "No tickets found.")
		return nil
	})
}

func (a *App) Sales(ctx context.Context) error {
	return a.guard.Run(ctx, "sales", func(ctx context.Context, _ models.Profile) error {
		sales, err := a.directory.Sales(ctx)
		if err != nil {
			return a.fetchFailed(ctx, "sales", err)
		}

		rows := make([][]string, 0, len(sales))
		for _, s := range sales {
			rows = append(rows, []string{
				orDash(s.TransactionRef),
				strings.TrimSpace(s.User.FirstName + " " + s.User.LastName),
				orDash(s.Product.Name),
				formatMoney(s.Amount) + " " + s.Currency,
				orDash(s.Status),
				formatTime(s.PaidAt),
			})
		}
		a.printTable([]string{"Reference", "Ambassador", "Product", "Amount", "Status", "Paid"}, rows, "No sales found.")
		return nil
	})
}

// Promotions lists the signed-in user's submitted sales.
func (a *App) Promotions(ctx context.Context) error {
	return a.guard.Run(ctx, "promotions", func(ctx context.Context, _ models.Profile) error {
		promos, err := a.directory.Promotions(ctx)
		if err != nil {
			return a.fetchFailed(ctx, "promotions", err)
		}

		rows := make([][]string, 0, len(promos))
		for _, p := range promos {
			rows = append(rows, []string{
				orDash(p.TransactionReference),
				orDash(p.Product.Name),
				strconv.Itoa(p.Quantity),
				string(p.Status),
				formatTime(p.CreatedAt),
			})
		}
		a.printTable([]string{"Reference", "Product", "Quantity", "Status", "Submitted"}, rows, "No promotions found.")
		return nil
	})
}

// Balance shows the signed-in user's wallet and payout account.
func (a *App) Balance(ctx context.Context) error {
	return a.guard.Run(ctx, "balance", func(ctx context.Context, _ models.Profile) error {
		b, err := a.directory.Balance(ctx)
		if err != nil {
			return a.fetchFailed(ctx, "balance", err)
		}

		rows := [][]string{{"Wallet balance", formatMoney(b.WalletBalance)}}
		if d := b.BankDetails; d != nil {
			rows = append(rows,
				[]string{"Bank", orDash(d.BankName)},
				[]string{"Account number", orDash(d.AccountNumber)},
				[]string{"Account name", orDash(d.AccountName)},
			)
		} else {
			rows = append(rows, []string{"Bank", "not set"})
		}
		fmt.Fprintln(a.out, renderTable([]string{"Field", "Value"}, rows))
		return nil
	})
}
