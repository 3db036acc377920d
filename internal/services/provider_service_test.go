package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
)

func TestBuildSearchFilters(t *testing.T) {
	tests := []struct {
		name    string
		params  SearchParams
		wantBox bool
		check   func(t *testing.T, f repositories.ProviderFilters)
	}{
		{
			name:   "defaults",
			params: SearchParams{},
			check: func(t *testing.T, f repositories.ProviderFilters) {
				if !f.ApprovedOnly || f.Sort != repositories.SortRelevance {
					t.Errorf("unexpected defaults: %+v", f)
				}
			},
		},
		{
			name:    "coordinates with default radius",
			params:  SearchParams{Lat: "10", Lng: "20"},
			wantBox: true,
			check: func(t *testing.T, f repositories.ProviderFilters) {
				want := repositories.NewBoundingBox(10, 20, repositories.DefaultSearchRadiusKm)
				if *f.Box != want {
					t.Errorf("box = %+v, want %+v", *f.Box, want)
				}
			},
		},
		{
			name:    "bad radius drops the box",
			params:  SearchParams{Lat: "10", Lng: "20", Radius: "far"},
			wantBox: false,
		},
		{
			name:    "missing longitude drops the box",
			params:  SearchParams{Lat: "10"},
			wantBox: false,
		},
		{
			name:   "numeric filters parse or vanish",
			params: SearchParams{MinRating: "4.5", MinReviews: "x", MaxPrice: "30", Sort: "rating"},
			check: func(t *testing.T, f repositories.ProviderFilters) {
				if f.MinRating == nil || *f.MinRating != 4.5 {
					t.Errorf("min rating = %v", f.MinRating)
				}
				if f.MinReviews != nil {
					t.Errorf("min reviews should be dropped, got %d", *f.MinReviews)
				}
				if f.MaxPrice == nil || *f.MaxPrice != 30 {
					t.Errorf("max price = %v", f.MaxPrice)
				}
				if f.Sort != repositories.SortRating {
					t.Errorf("sort = %s", f.Sort)
				}
			},
		},
		{
			name:   "unknown sort falls back",
			params: SearchParams{Sort: "cheapest"},
			check: func(t *testing.T, f repositories.ProviderFilters) {
				if f.Sort != repositories.SortRelevance {
					t.Errorf("sort = %s", f.Sort)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BuildSearchFilters(tt.params)
			if (f.Box != nil) != tt.wantBox {
				t.Fatalf("box present = %v, want %v", f.Box != nil, tt.wantBox)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestProviderGetDetailCountsViews(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := store.addUser(models.RoleProvider, "owner@example.com")
	provider := store.addProvider(owner, true)
	svc := NewProviderService(store, testLogger(), testValidator())

	for i := 1; i <= 3; i++ {
		got, err := svc.GetDetail(ctx, nil, provider.ID)
		if err != nil {
			t.Fatalf("GetDetail() error = %v", err)
		}
		if got.ProfileViews != i {
			t.Errorf("view %d: profile_views = %d", i, got.ProfileViews)
		}
	}
	if store.viewIncrements != 3 {
		t.Errorf("increments = %d, want 3", store.viewIncrements)
	}
}

func TestProviderVisibility(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := store.addUser(models.RoleProvider, "owner@example.com")
	student := store.addUser(models.RoleStudent, "student@example.com")
	admin := store.addUser(models.RoleAdmin, "admin@example.com")
	hidden := store.addProvider(owner, false)
	svc := NewProviderService(store, testLogger(), testValidator())

	studentPrincipal := NewPrincipal(student)
	if _, err := svc.GetDetail(ctx, &studentPrincipal, hidden.ID); err != ErrProviderNotFound {
		t.Errorf("student sees hidden provider: %v", err)
	}
	if _, err := svc.GetDetail(ctx, nil, hidden.ID); err != ErrProviderNotFound {
		t.Errorf("anonymous sees hidden provider: %v", err)
	}

	adminPrincipal := NewPrincipal(admin)
	if _, err := svc.GetDetail(ctx, &adminPrincipal, hidden.ID); err != ErrProviderNotFound {
		t.Errorf("admin sees hidden provider: %v", err)
	}

	ownerPrincipal := NewPrincipal(owner)
	if _, err := svc.GetDetail(ctx, &ownerPrincipal, hidden.ID); err != nil {
		t.Errorf("owner cannot see own hidden provider: %v", err)
	}
	if store.viewIncrements != 1 {
		t.Errorf("hidden lookups must not count views, got %d", store.viewIncrements)
	}

	listed, total, err := svc.List(ctx, ProviderListParams{}, PageRequest{})
	if err != nil || total != 0 || len(listed) != 0 {
		t.Errorf("unapproved provider listed: %d %v", total, err)
	}
}

func TestProviderUpdateRequiresOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := store.addUser(models.RoleProvider, "owner@example.com")
	other := store.addUser(models.RoleProvider, "other@example.com")
	provider := store.addProvider(owner, true)
	svc := NewProviderService(store, testLogger(), testValidator())

	name := "Renamed Studio"
	req := &ProviderUpdateRequest{Name: &name}

	if _, err := svc.Update(ctx, NewPrincipal(other), provider.ID, req); !IsPermission(err) {
		t.Errorf("non-owner update error = %v, want permission error", err)
	}

	got, err := svc.Update(ctx, NewPrincipal(owner), provider.ID, req)
	if err != nil {
		t.Fatalf("owner update error = %v", err)
	}
	if got.Name != name {
		t.Errorf("name = %q", got.Name)
	}

	if err := svc.Delete(ctx, NewPrincipal(other), provider.ID); !IsPermission(err) {
		t.Errorf("non-owner delete error = %v", err)
	}
}

func TestProviderMediaConcealsForeignProfiles(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := store.addUser(models.RoleProvider, "owner@example.com")
	other := store.addUser(models.RoleProvider, "other@example.com")
	provider := store.addProvider(owner, true)
	svc := NewProviderService(store, testLogger(), testValidator())

	req := &ProviderPhotoRequest{PhotoURL: "https://cdn.example.com/a.jpg"}
	if _, err := svc.AddPhoto(ctx, NewPrincipal(other), provider.ID, req); err != ErrProviderConcealed {
		t.Errorf("foreign photo upload error = %v", err)
	}
	if _, err := svc.AddPhoto(ctx, NewPrincipal(owner), uuid.New(), req); err != ErrProviderConcealed {
		t.Errorf("missing provider photo upload error = %v", err)
	}

	photo, err := svc.AddPhoto(ctx, NewPrincipal(owner), provider.ID, req)
	if err != nil {
		t.Fatalf("AddPhoto() error = %v", err)
	}
	if photo.ProviderID != provider.ID {
		t.Errorf("photo attached to %s", photo.ProviderID)
	}

	cert, err := svc.AddCertificate(ctx, NewPrincipal(owner), provider.ID, &ProviderCertificateRequest{
		CertificateName: "Teaching licence",
		CertificateURL:  "https://cdn.example.com/c.pdf",
		IssuedDate:      strPtr("2024-03-01"),
	})
	if err != nil {
		t.Fatalf("AddCertificate() error = %v", err)
	}
	if cert.IssuedDate == nil {
		t.Error("issued date not parsed")
	}
}

func TestEnsureProfileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	user := store.addUser(models.RoleProvider, "jane@example.com")
	svc := NewProviderService(store, testLogger(), testValidator())

	first, err := svc.EnsureProfile(ctx, user)
	if err != nil {
		t.Fatalf("EnsureProfile() error = %v", err)
	}
	second, err := svc.EnsureProfile(ctx, user)
	if err != nil {
		t.Fatalf("EnsureProfile() second call error = %v", err)
	}
	if first.ID != second.ID || len(store.providers) != 1 {
		t.Errorf("expected one profile, got %d", len(store.providers))
	}
	if first.Category != models.DefaultProviderCategory || first.IsApproved {
		t.Errorf("unexpected default profile: %+v", first)
	}
}

func TestUpsertMine(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	user := store.addUser(models.RoleProvider, "jane@example.com")
	svc := NewProviderService(store, testLogger(), testValidator())

	req := &ProviderRequest{Name: "Jane's Piano", Category: "music", Address: "1 Main St"}
	p, created, err := svc.UpsertMine(ctx, NewPrincipal(user), req)
	if err != nil || !created {
		t.Fatalf("first upsert created=%v err=%v", created, err)
	}

	req.Name = "Jane's Piano School"
	p2, created, err := svc.UpsertMine(ctx, NewPrincipal(user), req)
	if err != nil || created {
		t.Fatalf("second upsert created=%v err=%v", created, err)
	}
	if p2.ID != p.ID || p2.Name != "Jane's Piano School" {
		t.Errorf("profile not updated in place: %+v", p2)
	}

	student := store.addUser(models.RoleStudent, "s@example.com")
	if _, _, err := svc.UpsertMine(ctx, NewPrincipal(student), req); !IsPermission(err) {
		t.Errorf("student upsert error = %v", err)
	}
	if _, err := svc.GetMine(ctx, NewPrincipal(student)); !IsPermission(err) {
		t.Errorf("student GetMine error = %v", err)
	}
}
