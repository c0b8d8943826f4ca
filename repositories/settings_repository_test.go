package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vastuconnect/booking_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func settingsDoc(version int64) bson.D {
	return bson.D{
		{Key: "_id", Value: models.GlobalSettingsID},
		{Key: "commissionType", Value: models.CommissionTypePercentage},
		{Key: "commissionValue", Value: 10.0},
		{Key: "gstPercentage", Value: 18.0},
		{Key: "excludeGSTFromBase", Value: false},
		{Key: "version", Value: version},
	}
}

func TestSettingsRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "vastu_db." + "commissionsettings"

	mt.Run("get existing", func(mt *mtest.T) {
		repo := &SettingsRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, settingsDoc(3)))

		got, err := repo.Get(context.Background())
		if err != nil {
			mt.Fatalf("Get: %v", err)
		}
		if got.CommissionType != models.CommissionTypePercentage || got.CommissionValue != 10 || got.Version != 3 {
			mt.Errorf("Get = %+v", got)
		}
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := &SettingsRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.Get(context.Background()); !errors.Is(err, ErrNotFound) {
			mt.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("save bumps version", func(mt *mtest.T) {
		repo := &SettingsRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: settingsDoc(4)}))

		saved, err := repo.Save(context.Background(), models.CommissionSettings{
			CommissionType:  models.CommissionTypePercentage,
			CommissionValue: 10,
			GSTPercentage:   18,
			UpdatedAt:       time.Now(),
		}, 3)
		if err != nil {
			mt.Fatalf("Save: %v", err)
		}
		if saved.Version != 4 {
			mt.Errorf("Version = %d, want 4", saved.Version)
		}

		query := sentQuery(mt)
		if v, ok := query.Lookup("version").Int64OK(); !ok || v != 3 {
			mt.Errorf("query version = %s, want 3", query.Lookup("version"))
		}
		if got := lookupString(query, "_id"); got != models.GlobalSettingsID {
			mt.Errorf("query _id = %q", got)
		}
	})

	mt.Run("first save matches unversioned document", func(mt *mtest.T) {
		repo := &SettingsRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: settingsDoc(1)}))

		if _, err := repo.Save(context.Background(), models.DefaultCommissionSettings(), 0); err != nil {
			mt.Fatalf("Save: %v", err)
		}

		query := sentQuery(mt)
		if _, ok := query.Lookup("version").Int64OK(); ok {
			mt.Errorf("first save pinned a version: %s", query)
		}
		if _, ok := query.Lookup("$or").ArrayOK(); !ok {
			mt.Errorf("query = %s, want $or over version 0 or missing", query)
		}
	})

	mt.Run("save with stale version", func(mt *mtest.T) {
		repo := &SettingsRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Name:    "DuplicateKey",
			Message: "E11000 duplicate key error collection: vastu_db.commissionsettings index: _id_",
		}))

		_, err := repo.Save(context.Background(), models.DefaultCommissionSettings(), 1)
		if !errors.Is(err, ErrStaleVersion) {
			mt.Errorf("err = %v, want ErrStaleVersion", err)
		}
	})
}
