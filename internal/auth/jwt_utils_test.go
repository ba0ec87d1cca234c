package auth

import "testing"

func TestTokenPairRoundTrip(t *testing.T) {
	pair, err := GenerateTokenPair("user-1", "admin", "admin")
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	claims, err := ValidateToken(pair.Access)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "admin" || claims.Role != "admin" {
		t.Errorf("claims mismatch: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("token type = %q, want access", claims.TokenType)
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	pair, err := GenerateTokenPair("user-1", "admin", "admin")
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	if _, err := ValidateRefreshToken(pair.Access); err == nil {
		t.Error("access token must not pass refresh validation")
	}
	claims, err := ValidateRefreshToken(pair.Refresh)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("token type = %q, want refresh", claims.TokenType)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token must not validate")
	}
}
