package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

var (
	errNotSignedIn   = errors.New("not signed in; run writerctl signin")
	errAdminRequired = errors.New("admin privileges are required")
)

type command struct {
	summary string
	flags   func(fs *pflag.FlagSet)
	run     func(ctx context.Context, a *app, fs *pflag.FlagSet) error
}

var commands = map[string]command{
	"signup": {
		summary: "create an account",
		flags: func(fs *pflag.FlagSet) {
			fs.String("email", "", "account email")
			fs.String("password", "", "password (read from stdin when empty)")
			fs.String("name", "", "full name")
			fs.String("type", "", "writer, business or admin")
		},
		run: signUp,
	},
	"signin": {
		summary: "sign in and remember the session",
		flags: func(fs *pflag.FlagSet) {
			fs.String("email", "", "account email")
			fs.String("password", "", "password (read from stdin when empty)")
		},
		run: signIn,
	},
	"signout": {
		summary: "forget the stored session",
		run: func(ctx context.Context, a *app, _ *pflag.FlagSet) error {
			return a.manager.SignOut(ctx)
		},
	},
	"whoami": {
		summary: "show the signed-in user",
		flags: func(fs *pflag.FlagSet) {
			fs.Bool("remote", false, "ask the server instead of the stored session")
		},
		run: whoAmI,
	},
	"profile": {
		summary: "edit your profile",
		flags: func(fs *pflag.FlagSet) {
			fs.String("name", "", "full name")
			fs.String("bio", "", "bio")
			fs.String("location", "", "location")
			fs.String("avatar-url", "", "avatar url")
			fs.StringSlice("skills", nil, "comma separated skills")
		},
		run: editProfile,
	},
	"admin": {
		summary: "check that the signed-in user may use admin commands",
		run: func(_ context.Context, a *app, _ *pflag.FlagSet) error {
			if err := requireAdmin(a); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "admin access granted for", a.manager.User().Email)
			return nil
		},
	},
	"users": {
		summary: "list every account (admin)",
		run:     listUsers,
	},
	"reset-password": {
		summary: "set a user's password (admin)",
		flags: func(fs *pflag.FlagSet) {
			fs.String("id", "", "user id")
			fs.String("password", "", "new password (read from stdin when empty)")
		},
		run: resetPassword,
	},
	"set-user": {
		summary: "change a user's type or active flag (admin)",
		flags: func(fs *pflag.FlagSet) {
			fs.String("id", "", "user id")
			fs.String("type", "", "writer, business or admin")
			fs.Bool("active", true, "whether the account may sign in")
		},
		run: setUser,
	},
	"faqs": {
		summary: "list the published FAQs",
		run:     listFAQs,
	},
	"fee": {
		summary: "show the job posting fee",
		run: func(ctx context.Context, a *app, _ *pflag.FlagSet) error {
			fee, err := a.client.JobPostingFee(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, fee)
			return nil
		},
	},
}

func signUp(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	email, _ := fs.GetString("email")
	name, _ := fs.GetString("name")
	userType, _ := fs.GetString("type")
	password, err := passwordFlag(a, fs, "password")
	if err != nil {
		return err
	}
	user, err := a.manager.SignUp(ctx, ports.SignUpInput{
		Email:    email,
		Password: password,
		FullName: name,
		UserType: domain.UserType(userType),
	})
	if err != nil {
		return err
	}
	printUser(a.out, user)
	return nil
}

func signIn(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	email, _ := fs.GetString("email")
	password, err := passwordFlag(a, fs, "password")
	if err != nil {
		return err
	}
	user, err := a.manager.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	printUser(a.out, user)
	return nil
}

func whoAmI(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	user := a.manager.User()
	if user == nil {
		return errNotSignedIn
	}
	if remote, _ := fs.GetBool("remote"); remote {
		fresh, err := a.client.Me(ctx, a.manager.Token())
		if err != nil {
			return err
		}
		user = fresh
	}
	printUser(a.out, user)
	return nil
}

func editProfile(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if a.manager.User() == nil {
		return errNotSignedIn
	}
	var update domain.ProfileUpdate
	update.FullName = changedString(fs, "name")
	update.Bio = changedString(fs, "bio")
	update.Location = changedString(fs, "location")
	update.AvatarURL = changedString(fs, "avatar-url")
	if fs.Changed("skills") {
		skills, _ := fs.GetStringSlice("skills")
		update.Skills = &skills
	}
	if update.Empty() {
		return errors.New("nothing to update")
	}
	user, err := a.client.UpdateProfile(ctx, a.manager.Token(), update)
	if err != nil {
		return err
	}
	printUser(a.out, user)
	return nil
}

func listUsers(ctx context.Context, a *app, _ *pflag.FlagSet) error {
	if err := requireAdmin(a); err != nil {
		return err
	}
	users, err := a.client.ListUsers(ctx, a.manager.Token())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tTYPE\tACTIVE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.FullName, u.UserType, u.IsActive)
	}
	return tw.Flush()
}

func resetPassword(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if err := requireAdmin(a); err != nil {
		return err
	}
	id, _ := fs.GetString("id")
	if id == "" {
		return errors.New("--id is required")
	}
	password, err := passwordFlag(a, fs, "password")
	if err != nil {
		return err
	}
	if err := a.client.ResetPassword(ctx, a.manager.Token(), id, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password reset for", id)
	return nil
}

func setUser(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if err := requireAdmin(a); err != nil {
		return err
	}
	id, _ := fs.GetString("id")
	if id == "" {
		return errors.New("--id is required")
	}
	var update domain.ProfileUpdate
	if fs.Changed("type") {
		t, _ := fs.GetString("type")
		ut := domain.UserType(t)
		update.UserType = &ut
	}
	if fs.Changed("active") {
		active, _ := fs.GetBool("active")
		update.IsActive = &active
	}
	if update.Empty() {
		return errors.New("nothing to update")
	}
	user, err := a.client.UpdateUser(ctx, a.manager.Token(), id, update)
	if err != nil {
		return err
	}
	printUser(a.out, user)
	return nil
}

func listFAQs(ctx context.Context, a *app, _ *pflag.FlagSet) error {
	faqs, err := a.client.FAQs(ctx)
	if err != nil {
		return err
	}
	for _, f := range faqs {
		fmt.Fprintf(a.out, "Q: %s\nA: %s\n\n", f.Question, f.Answer)
	}
	return nil
}

// requireAdmin unlocks the admin flag for this invocation only.
func requireAdmin(a *app) error {
	if a.manager.User() == nil {
		return errNotSignedIn
	}
	if !a.manager.UnlockAdmin() {
		return errAdminRequired
	}
	return nil
}

func passwordFlag(a *app, fs *pflag.FlagSet, name string) (string, error) {
	if pw, _ := fs.GetString(name); pw != "" {
		return pw, nil
	}
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func changedString(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}
	v, _ := fs.GetString(name)
	return &v
}

func printUser(w io.Writer, u *domain.User) {
	fmt.Fprintf(w, "%s <%s> %s (%s)\n", u.FullName, u.Email, u.UserType, u.ID)
}
