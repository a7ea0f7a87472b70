package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/ordo/internal/client/machine"
	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/filex"
)

const exportDir = "exports"

func (a *App) render(st machine.State) {
	w := a.out

	switch st.Screen {
	case models.ScreenSplash:
		fmt.Fprintln(w, "Ordo. Clarity in every corner.")

	case models.ScreenAuth:
		fmt.Fprintln(w, "Welcome to Ordo. Type signin or signup.")

	case models.ScreenOnboarding:
		pages := models.OnboardingPages()
		if st.OnboardingPage < len(pages) {
			p := pages[st.OnboardingPage]
			fmt.Fprintf(w, "[%d/%d] %s\n  %s\n", st.OnboardingPage+1, len(pages), p.Title, p.Description)
		}

	case models.ScreenHome:
		name := ""
		if st.Session != nil {
			name = st.Session.DisplayName
		}
		fmt.Fprintf(w, "Hello, %s. Ready to find some calm?\n", name)
		if len(st.Recent) > 0 {
			fmt.Fprintln(w, "Recent spaces:")
			for _, sp := range st.Recent {
				fmt.Fprintf(w, "  %s  %s (%s)\n", sp.ID, sp.Name, sp.CreatedDate)
			}
		}

	case models.ScreenScan:
		fmt.Fprintln(w, "Camera is on. Type shutter to take the photo.")

	case models.ScreenConfirmation:
		fmt.Fprintf(w, "Photo captured (%s). Type use or retake.\n", describeImage(st.Captured))

	case models.ScreenStyleSelection:
		fmt.Fprintln(w, "Choose a style:")
		for _, s := range models.Styles() {
			fmt.Fprintf(w, "  %-13s %s\n", s, s.Description())
		}

	case models.ScreenProcessing:
		fmt.Fprintln(w, "Reimagining your space...")

	case models.ScreenResult:
		label := "after"
		if st.ViewMode == models.ViewBefore {
			label = "before"
		}
		fmt.Fprintf(w, "Showing %s: %s\n", label, describeImage(st.Visible()))
		if st.Kind == models.KindDream {
			fmt.Fprintf(w, "Dream space: %s\n", st.Prompt)
		}
		if len(st.Steps) > 0 {
			fmt.Fprintf(w, "%d steps ready. Type steps to begin.\n", len(st.Steps))
		}

	case models.ScreenStepFocus:
		if step, ok := st.CurrentStep(); ok {
			fmt.Fprintf(w, "Step %d of %d: %s\n  %s\n", st.StepIndex+1, len(st.Steps), step.Title, step.Description)
		}

	case models.ScreenFocusTimer:
		fmt.Fprintf(w, "Focus until %s. Type done when finished.\n", st.FocusDeadline.Format("15:04"))

	case models.ScreenCompletion:
		fmt.Fprintln(w, "Every step is done. Enjoy the calm.")

	case models.ScreenSaveSpace:
		fmt.Fprintln(w, "Name this space: save <name>")

	case models.ScreenLibrary:
		if len(st.Spaces) == 0 {
			fmt.Fprintln(w, "Your library is empty.")
		}
		for _, sp := range st.Spaces {
			fmt.Fprintf(w, "  %s  %-20s %s  %s\n", sp.ID, sp.Name, sp.CreatedDate, sp.Kind)
			if sp.Note != "" {
				fmt.Fprintf(w, "      %s\n", strings.ReplaceAll(sp.Note, "\n", "\n      "))
			}
		}

	case models.ScreenSettings:
		if st.Session != nil {
			s := st.Session.Settings
			fmt.Fprintf(w, "Account: %s <%s>\n", st.Session.DisplayName, st.Session.Email)
			fmt.Fprintf(w, "  style %s, focus %d min\n", s.DefaultStyle, s.DefaultFocusMinutes)
			fmt.Fprintf(w, "  animations %s, haptics %s, text %s, contrast %s\n",
				onOff(s.GentleAnimations), onOff(s.HapticFeedback), onOff(s.LargerText), onOff(s.HighContrast))
		}

	case models.ScreenInspiration:
		fmt.Fprintln(w, "Describe your dream space: imagine <description>")
	}

	if st.Notice != nil {
		fmt.Fprintf(w, "! %s\n", st.Notice.Message)
	}
}

func describeImage(img models.Image) string {
	if img.IsZero() {
		return "no image"
	}
	return fmt.Sprintf("%s, %d KB", img.MIMEType, (len(img.Data)+1023)/1024)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// export writes the visible image to path, or to a new file under ./exports.
func (a *App) export(ctx context.Context, args []string) error {
	st := a.m.State()
	img := st.Visible()
	if st.Screen == models.ScreenConfirmation {
		img = st.Captured
	}
	if img.IsZero() {
		return fmt.Errorf("nothing to export")
	}

	if len(args) > 0 {
		path := strings.Join(args, " ")
		if err := os.WriteFile(path, img.Data, 0o640); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(a.out, "Saved %s\n", path)
		return nil
	}

	dir, err := filex.EnsureSubdDir(exportDir)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	base := "space"
	if st.SpaceID != "" {
		base += "-" + st.SpaceID
	}
	path, err := filex.WriteNew(dir, base, extension(img.MIMEType), img.Data)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	a.log.Debug(ctx, "image exported", "path", path)
	fmt.Fprintf(a.out, "Saved %s\n", path)
	return nil
}

func extension(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
