package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ianct-client/application/stores"
	"ianct-client/domain/models"
	"ianct-client/interfaces/api"
	"ianct-client/interfaces/router"
	apperrors "ianct-client/pkg/errors"

	"go.uber.org/zap"
)

// Admin is the admin console shell.
type Admin struct {
	*Shell
	auth *stores.AuthStore
	api  *api.Admin
}

func NewAdmin(auth *stores.AuthStore, a *api.Admin, nav *router.Navigator, out io.Writer, logger *zap.Logger) *Admin {
	s := &Admin{
		Shell: newShell("admin", out, nav, logger),
		auth:  auth,
		api:   a,
	}

	s.register("login", Command{Usage: "login <username> <password>", Help: "sign in", MinArgs: 2, Run: s.login})
	s.register("logout", Command{Help: "sign out", Run: s.logout})
	s.register("whoami", Command{Help: "show the signed-in account", Run: s.whoami})
	s.register("overview", Command{Help: "dashboard counts", Run: s.overview})
	s.register("jobs", Command{Help: "recent model jobs", Run: s.jobs})
	s.register("users", Command{Help: "list users", Run: s.users})
	s.register("user-add", Command{Usage: "user-add <username> <email> <password>", Help: "create a user", MinArgs: 3, Run: s.addUser})
	s.register("user-enable", Command{Usage: "user-enable <id>", Help: "enable a user", MinArgs: 1, Run: s.userStatus(true)})
	s.register("user-disable", Command{Usage: "user-disable <id>", Help: "disable a user", MinArgs: 1, Run: s.userStatus(false)})
	s.register("texts", Command{Usage: "texts [category]", Help: "list texts", Run: s.texts})
	s.register("text-rm", Command{Usage: "text-rm <id>", Help: "delete a text", MinArgs: 1, Run: s.deleteText})
	s.register("annotations", Command{Usage: "annotations <textId>", Help: "entities and relations of a text", MinArgs: 1, Run: s.annotations})
	s.register("models", Command{Help: "list model configurations", Run: s.models})
	s.register("model-add", Command{Usage: "model-add <key> <provider> <display name>", Help: "add a model", MinArgs: 3, Run: s.addModel})
	s.register("model-enable", Command{Usage: "model-enable <id>", Help: "enable a model", MinArgs: 1, Run: s.modelStatus(true)})
	s.register("model-disable", Command{Usage: "model-disable <id>", Help: "disable a model", MinArgs: 1, Run: s.modelStatus(false)})
	s.register("model-rm", Command{Usage: "model-rm <id>", Help: "delete a model", MinArgs: 1, Run: s.deleteModel})
	return s
}

func (s *Admin) login(ctx context.Context, args []string) error {
	if err := s.auth.Login(ctx, models.LoginRequest{Username: args[0], Password: args[1]}); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Signed in as %s\n", args[0])
	return s.afterLogin(ctx, "/dashboard")
}

func (s *Admin) logout(ctx context.Context, _ []string) error {
	s.auth.Logout()
	fmt.Fprintln(s.out, "Signed out")
	_, err := s.visit(ctx, "/login")
	return err
}

func (s *Admin) whoami(_ context.Context, _ []string) error {
	user := s.auth.User()
	if user == nil {
		if !s.auth.HasToken() {
			fmt.Fprintln(s.out, "Not signed in")
			return nil
		}
		claims, err := s.auth.Claims()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s (%s, profile not loaded)\n", claims.Username, claims.Role)
		return nil
	}
	fmt.Fprintf(s.out, "%s <%s> %s\n", user.Username, user.Email, user.Role)
	return nil
}

func (s *Admin) overview(ctx context.Context, _ []string) error {
	if ok, err := s.enter(ctx, "/dashboard"); !ok || err != nil {
		return err
	}
	o, err := s.api.Dashboard.AdminOverview(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "texts %d  entities %d  relations %d  model jobs %d\n",
		o.TextCount, o.EntityCount, o.RelationCount, o.ModelJobCount)
	return nil
}

func (s *Admin) jobs(ctx context.Context, _ []string) error {
	if ok, err := s.enter(ctx, "/model-jobs"); !ok || err != nil {
		return err
	}
	o, err := s.api.Dashboard.AdminOverview(ctx)
	if err != nil {
		return err
	}
	return s.table("ID\tTEXT\tTYPE\tSTATUS\tMODEL", func(w io.Writer) {
		for _, j := range o.RecentJobs {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", j.ID, j.TextID, j.JobType, j.Status, j.Model)
		}
	})
}

func (s *Admin) users(ctx context.Context, _ []string) error {
	if ok, err := s.enter(ctx, "/users"); !ok || err != nil {
		return err
	}
	users, err := s.api.Users.List(ctx)
	if err != nil {
		return err
	}
	return s.table("ID\tUSERNAME\tEMAIL\tENABLED", func(w io.Writer) {
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", u.ID, u.Username, u.Email, u.Enabled)
		}
	})
}

func (s *Admin) addUser(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/users"); !ok || err != nil {
		return err
	}
	u, err := s.api.Users.Create(ctx, models.CreateUserRequest{Username: args[0], Email: args[1], Password: args[2]})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created user %d (%s)\n", u.ID, u.Username)
	return nil
}

func (s *Admin) userStatus(enabled bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if ok, err := s.enter(ctx, "/users"); !ok || err != nil {
			return err
		}
		u, err := s.api.Users.UpdateStatus(ctx, id, enabled)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s enabled=%t\n", u.Username, u.Enabled)
		return nil
	}
}

func (s *Admin) texts(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/texts"); !ok || err != nil {
		return err
	}
	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	texts, err := s.api.Texts.List(ctx, category, nil)
	if err != nil {
		return err
	}
	return s.table("ID\tTITLE\tCATEGORY", func(w io.Writer) {
		for _, t := range texts {
			fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Title, t.Category)
		}
	})
}

func (s *Admin) deleteText(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if ok, err := s.enter(ctx, "/texts"); !ok || err != nil {
		return err
	}
	if err := s.api.Texts.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted text %d\n", id)
	return nil
}

func (s *Admin) annotations(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if ok, err := s.enter(ctx, "/annotations"); !ok || err != nil {
		return err
	}
	entities, err := s.api.Annotations.Entities(ctx, id)
	if err != nil {
		return err
	}
	relations, err := s.api.Annotations.Relations(ctx, id)
	if err != nil {
		return err
	}
	if err := printEntities(s.Shell, entities); err != nil {
		return err
	}
	return printRelations(s.Shell, relations)
}

func (s *Admin) models(ctx context.Context, _ []string) error {
	if ok, err := s.enter(ctx, "/settings"); !ok || err != nil {
		return err
	}
	list, err := s.api.Models.All(ctx)
	if err != nil {
		return err
	}
	return s.table("ID\tKEY\tNAME\tPROVIDER\tENABLED", func(w io.Writer) {
		for _, m := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", m.ID, m.ModelKey, m.DisplayName, m.Provider, m.Enabled)
		}
	})
}

func (s *Admin) addModel(ctx context.Context, args []string) error {
	if ok, err := s.enter(ctx, "/settings"); !ok || err != nil {
		return err
	}
	m, err := s.api.Models.Create(ctx, models.ModelConfig{
		ModelKey:    args[0],
		Provider:    args[1],
		DisplayName: strings.Join(args[2:], " "),
		Enabled:     true,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added model %d (%s)\n", m.ID, m.ModelKey)
	return nil
}

func (s *Admin) modelStatus(enabled bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if ok, err := s.enter(ctx, "/settings"); !ok || err != nil {
			return err
		}
		list, err := s.api.Models.All(ctx)
		if err != nil {
			return err
		}
		for _, m := range list {
			if m.ID != id {
				continue
			}
			m.Enabled = enabled
			updated, err := s.api.Models.Update(ctx, id, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s enabled=%t\n", updated.ModelKey, updated.Enabled)
			return nil
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("model %d", id))
	}
}

func (s *Admin) deleteModel(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if ok, err := s.enter(ctx, "/settings"); !ok || err != nil {
		return err
	}
	if err := s.api.Models.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted model %d\n", id)
	return nil
}

func printEntities(s *Shell, entities []models.Entity) error {
	return s.table("ENTITY\tLABEL\tCATEGORY\tSPAN", func(w io.Writer) {
		for _, e := range entities {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d-%d\n", e.ID, e.Label, e.Category, e.StartOffset, e.EndOffset)
		}
	})
}

func printRelations(s *Shell, relations []models.Relation) error {
	return s.table("RELATION\tSOURCE\tTARGET\tTYPE", func(w io.Writer) {
		for _, r := range relations {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", r.ID, r.SourceID(), r.TargetID(), r.RelationType)
		}
	})
}
