package providers

import "testing"

func TestSubstitutePlaceholders(t *testing.T) {
	tests := []struct {
		name      string
		template  string
		user      User
		lowerCase bool
		want      string
	}{
		{
			name:     "all placeholders",
			template: "${user}-${id}-${email}.jpg",
			user:     testUser(),
			want:     "JDoe-1-john.doe%40example.com.jpg",
		},
		{
			name:     "repeated placeholder",
			template: "/${user}/${user}",
			user:     testUser(),
			want:     "/JDoe/JDoe",
		},
		{
			name:     "no placeholder",
			template: "http://avatars.example.com",
			user:     testUser(),
			want:     "http://avatars.example.com",
		},
		{
			name:     "reserved characters are escaped",
			template: "/${user}",
			user:     User{Username: "j doe/x&y"},
			want:     "/j+doe%2Fx%26y",
		},
		{
			// Query escaping keeps ~ and escapes *, unlike form encoders
			// that do the opposite.
			name:     "tilde kept, asterisk escaped",
			template: "/${user}",
			user:     User{Username: "j~doe*"},
			want:     "/j~doe%2A",
		},
		{
			name:      "lowercase applies to every attribute",
			template:  "/${user}/${email}",
			user:      User{Username: "JDoe", PreferredEmail: "John.Doe@Example.COM"},
			lowerCase: true,
			want:      "/jdoe/john.doe%40example.com",
		},
		{
			name:     "absent email is left unresolved",
			template: "/${email}/${id}",
			user:     User{AccountID: 1000042},
			want:     "/${email}/1000042",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubstitutePlaceholders(tt.template, tt.user, tt.lowerCase)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpgradeScheme(t *testing.T) {
	tests := []struct {
		template string
		force    bool
		want     string
	}{
		{"http://a.example.com/${user}", true, "https://a.example.com/${user}"},
		{"http://a.example.com/${user}", false, "http://a.example.com/${user}"},
		{"https://a.example.com/${user}", true, "https://a.example.com/${user}"},
		{"//a.example.com/${user}?next=http://b.example.com", true, "//a.example.com/${user}?next=http://b.example.com"},
		{"http://a.example.com/${user}?next=http://b.example.com", true, "https://a.example.com/${user}?next=http://b.example.com"},
	}
	for _, tt := range tests {
		if got := UpgradeScheme(tt.template, tt.force); got != tt.want {
			t.Errorf("UpgradeScheme(%q, %v) = %q, want %q", tt.template, tt.force, got, tt.want)
		}
	}
}

func TestAppendSizeParameter(t *testing.T) {
	tests := []struct {
		u    string
		tmpl string
		size int
		want string
	}{
		{"http://a/x.jpg", "s=${size}", 40, "http://a/x.jpg?s=40"},
		{"http://a/x?d=mm", "s=${size}", 40, "http://a/x?d=mm&s=40"},
		{"http://a/x.jpg", "s=${size}", 0, "http://a/x.jpg"},
		{"http://a/x.jpg", "", 40, "http://a/x.jpg"},
		{"http://a/x.jpg", "size=${size}&w=${size}", 16, "http://a/x.jpg?size=16&w=16"},
	}
	for _, tt := range tests {
		if got := AppendSizeParameter(tt.u, tt.tmpl, tt.size); got != tt.want {
			t.Errorf("AppendSizeParameter(%q, %q, %d) = %q, want %q", tt.u, tt.tmpl, tt.size, got, tt.want)
		}
	}
}
