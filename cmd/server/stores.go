package main

import (
	"database/sql"

	attendanceservice "peoplehub/internal/attendance/service"
	attendancestore "peoplehub/internal/attendance/store"
	dashboardservice "peoplehub/internal/dashboard/service"
	dashboardstore "peoplehub/internal/dashboard/store"
	documentservice "peoplehub/internal/documents/service"
	documentstore "peoplehub/internal/documents/store"
	identityservice "peoplehub/internal/identity/service"
	accountstore "peoplehub/internal/identity/store/account"
	profilestore "peoplehub/internal/identity/store/profile"
	settingsservice "peoplehub/internal/settings/service"
	settingsstore "peoplehub/internal/settings/store"
)

type accountStore interface {
	identityservice.AccountStore
	dashboardservice.Counter
}

type profileStore interface {
	identityservice.ProfileStore
	dashboardservice.Counter
}

type attendanceStore interface {
	attendanceservice.Store
	dashboardservice.AttendanceCounter
}

// stores groups the document stores so main can pick Postgres or memory once.
type stores struct {
	accounts   accountStore
	profiles   profileStore
	attendance attendanceStore
	documents  documentservice.Store
	activities dashboardservice.ActivityStore
	events     dashboardservice.EventStore
	settings   settingsservice.Store
}

// newStores returns Postgres-backed stores, or in-memory ones when db is nil.
func newStores(db *sql.DB) stores {
	if db == nil {
		return stores{
			accounts:   accountstore.New(),
			profiles:   profilestore.New(),
			attendance: attendancestore.New(),
			documents:  documentstore.New(),
			activities: dashboardstore.NewActivities(),
			events:     dashboardstore.NewEvents(),
			settings:   settingsstore.New(),
		}
	}
	return stores{
		accounts:   accountstore.NewPostgres(db),
		profiles:   profilestore.NewPostgres(db),
		attendance: attendancestore.NewPostgres(db),
		documents:  documentstore.NewPostgres(db),
		activities: dashboardstore.NewPostgresActivities(db),
		events:     dashboardstore.NewPostgresEvents(db),
		settings:   settingsstore.NewPostgres(db),
	}
}
