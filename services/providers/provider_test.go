package providers

import (
	"context"
	"sync"
	"testing"

	"lyrics-fetch-go/lyrics"
)

// mockProvider is a simple provider for testing.
type mockProvider struct {
	name string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Search(ctx context.Context, keyword string, page int) ([]lyrics.Song, error) {
	return []lyrics.Song{{Title: keyword, Source: lyrics.Source(m.name)}}, nil
}

func (m *mockProvider) FetchLyrics(ctx context.Context, song lyrics.Song) (*lyrics.LyricsBundle, error) {
	return &lyrics.LyricsBundle{Song: song}, nil
}

func newMockProvider(name string) *mockProvider {
	return &mockProvider{name: name}
}

func TestRegistry_Register(t *testing.T) {
	t.Run("Register single provider", func(t *testing.T) {
		r := &Registry{providers: make(map[string]Provider)}
		p := newMockProvider("test")

		r.Register(p)

		if !r.Has("test") {
			t.Error("Provider 'test' should be registered")
		}
	})

	t.Run("Register multiple providers", func(t *testing.T) {
		r := &Registry{providers: make(map[string]Provider)}

		r.Register(newMockProvider("kg"))
		r.Register(newMockProvider("ne"))
		r.Register(newMockProvider("lrclib"))

		if len(r.providers) != 3 {
			t.Errorf("Expected 3 providers, got %d", len(r.providers))
		}
	})

	t.Run("Register overwrites existing provider", func(t *testing.T) {
		r := &Registry{providers: make(map[string]Provider)}

		r.Register(newMockProvider("test"))
		second := newMockProvider("test")
		r.Register(second)

		p, err := r.Get("test")
		if err != nil {
			t.Fatalf("Failed to get provider: %v", err)
		}
		if p != Provider(second) {
			t.Error("Register should overwrite the existing provider for the same name")
		}
	})
}

func TestRegistry_Get(t *testing.T) {
	r := &Registry{providers: make(map[string]Provider)}
	r.Register(newMockProvider("kg"))
	r.Register(newMockProvider("ne"))

	t.Run("Get existing provider", func(t *testing.T) {
		p, err := r.Get("kg")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if p.Name() != "kg" {
			t.Errorf("Expected 'kg', got %s", p.Name())
		}
	})

	t.Run("Get another existing provider", func(t *testing.T) {
		p, err := r.Get("ne")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if p.Name() != "ne" {
			t.Errorf("Expected 'ne', got %s", p.Name())
		}
	})

	t.Run("Get non-existent provider returns error", func(t *testing.T) {
		_, err := r.Get("nonexistent")
		if err == nil {
			t.Error("Expected error for non-existent provider")
		}

		expectedErr := "provider not found: nonexistent"
		if err.Error() != expectedErr {
			t.Errorf("Expected error %q, got %q", expectedErr, err.Error())
		}
	})

	t.Run("Get empty name returns error", func(t *testing.T) {
		_, err := r.Get("")
		if err == nil {
			t.Error("Expected error for empty provider name")
		}
	})
}

func TestRegistry_List(t *testing.T) {
	t.Run("List empty registry", func(t *testing.T) {
		r := &Registry{providers: make(map[string]Provider)}
		names := r.List()

		if len(names) != 0 {
			t.Errorf("Expected empty list, got %v", names)
		}
	})

	t.Run("List with providers", func(t *testing.T) {
		r := &Registry{providers: make(map[string]Provider)}
		r.Register(newMockProvider("kg"))
		r.Register(newMockProvider("ne"))
		r.Register(newMockProvider("lrclib"))

		names := r.List()

		if len(names) != 3 {
			t.Fatalf("Expected 3 names, got %d", len(names))
		}

		nameMap := make(map[string]bool)
		for _, name := range names {
			nameMap[name] = true
		}

		for _, expected := range []string{"kg", "ne", "lrclib"} {
			if !nameMap[expected] {
				t.Errorf("Expected %q in list", expected)
			}
		}
	})
}

func TestRegistry_Has(t *testing.T) {
	r := &Registry{providers: make(map[string]Provider)}
	r.Register(newMockProvider("kg"))

	tests := []struct {
		name     string
		provider string
		expected bool
	}{
		{"Existing provider", "kg", true},
		{"Non-existent provider", "ne", false},
		{"Empty name", "", false},
		{"Case sensitive", "KG", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Has(tt.provider)
			if result != tt.expected {
				t.Errorf("Has(%q) = %v, expected %v", tt.provider, result, tt.expected)
			}
		})
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := &Registry{providers: make(map[string]Provider)}

	for i := 0; i < 5; i++ {
		r.Register(newMockProvider("provider" + string(rune('0'+i))))
	}

	var wg sync.WaitGroup
	done := make(chan bool)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.List()
				r.Has("provider0")
				r.Get("provider1")
			}
		}()
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				r.Register(newMockProvider("concurrent" + string(rune('a'+id))))
			}
		}(i)
	}

	go func() {
		wg.Wait()
		done <- true
	}()

	<-done
}

func TestGetRegistry_Singleton(t *testing.T) {
	r1 := GetRegistry()
	r2 := GetRegistry()

	if r1 != r2 {
		t.Error("GetRegistry should return the same instance")
	}
}

func TestGlobalRegistryAccess(t *testing.T) {
	r := GetRegistry()

	t.Run("Has", func(t *testing.T) {
		_ = r.Has("some_provider")
	})

	t.Run("List", func(t *testing.T) {
		names := r.List()
		if names == nil {
			t.Error("List() should not return nil")
		}
	})

	t.Run("Get for non-existent", func(t *testing.T) {
		_, err := r.Get("definitely_not_a_real_provider_xyz123")
		if err == nil {
			t.Error("Expected error for non-existent provider")
		}
	})
}

func TestProviderInterface(t *testing.T) {
	var _ Provider = &mockProvider{}

	p := newMockProvider("test")

	t.Run("Name returns correct value", func(t *testing.T) {
		if p.Name() != "test" {
			t.Errorf("Name() = %q, expected %q", p.Name(), "test")
		}
	})

	t.Run("Search returns a candidate", func(t *testing.T) {
		songs, err := p.Search(context.Background(), "some song", 1)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(songs) != 1 || songs[0].Title != "some song" {
			t.Errorf("Search() = %+v, expected one song titled %q", songs, "some song")
		}
	})

	t.Run("FetchLyrics returns a bundle", func(t *testing.T) {
		song := lyrics.Song{Title: "song"}
		bundle, err := p.FetchLyrics(context.Background(), song)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if bundle.Song.Title != "song" {
			t.Errorf("bundle.Song = %+v, expected Title %q", bundle.Song, "song")
		}
	})
}
