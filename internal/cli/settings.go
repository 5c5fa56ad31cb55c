package cli

import (
	"fmt"
	"maps"
	"slices"

	ucli "github.com/urfave/cli/v2"

	"mediwallet/internal/domain"
)

// patchFields binds each settings flag to its patch field.
func patchFields(p *domain.UserSettingsPatch) map[string]**string {
	return map[string]**string{
		"user-id":            &p.UserID,
		"user-name":          &p.UserName,
		"user-phone":         &p.UserPhone,
		"user-email":         &p.UserEmail,
		"user-address":       &p.UserAddress,
		"user-date-of-birth": &p.UserDateOfBirth,
		"insurance-company":  &p.InsuranceCompany,
		"insurance-number":   &p.InsuranceNumber,
		"doctor-name":        &p.DoctorName,
		"doctor-phone":       &p.DoctorPhone,
		"doctor-email":       &p.DoctorEmail,
		"doctor-address":     &p.DoctorAddress,
		"ai-provider":        &p.AIProvider,
		"ai-api-key":         &p.AIAPIKey,
	}
}

func (a *app) settingsCommand() *ucli.Command {
	var flags []ucli.Flag
	for _, name := range slices.Sorted(maps.Keys(patchFields(&domain.UserSettingsPatch{}))) {
		flags = append(flags, &ucli.StringFlag{Name: name})
	}

	return &ucli.Command{
		Name:  "settings",
		Usage: "user, insurance and doctor details",
		Subcommands: []*ucli.Command{
			{
				Name:   "show",
				Action: a.withBackend(a.showSettings),
			},
			{
				Name:   "set",
				Usage:  "update the given fields; an empty value clears an optional field",
				Flags:  flags,
				Action: a.withBackend(a.setSettings),
			},
		},
	}
}

func (a *app) showSettings(c *ucli.Context, b domain.Backend) error {
	s, err := b.GetUserSettings(c.Context)
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Fprintln(a.out, "no settings saved")
		return nil
	}
	return a.printJSON(s)
}

func (a *app) setSettings(c *ucli.Context, b domain.Backend) error {
	var p domain.UserSettingsPatch
	for name, field := range patchFields(&p) {
		if c.IsSet(name) {
			v := c.String(name)
			*field = &v
		}
	}
	s, err := b.SaveUserSettings(c.Context, p)
	if err != nil {
		return err
	}
	return a.printJSON(s)
}
