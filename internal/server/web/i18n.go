package web

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys are the English texts; Indonesian is the default language.
const (
	msgLoginOK          = "Login successful!"
	msgBadCredentials   = "Invalid username or password."
	msgUsernameTaken    = "Username is already taken."
	msgRegistered       = "Account created! Please log in."
	msgLoggedOut        = "You have been logged out."
	msgHistoryDeleted   = "Prediction history deleted."
	msgCheckCredentials = "Please check the username and password."
	msgInvalidInput     = "Invalid input."
	msgFieldRequired    = "Invalid input: %s is required"
	msgFieldNotNumber   = "Invalid input: %s must be a number"
	msgInternal         = "Something went wrong. Please try again."
	msgPrediction       = "Predicted severity: %d"
	msgReferral         = "We recommend taking your child to a specialist."
)

var translations = []struct {
	key, id string
}{
	{msgLoginOK, "Login berhasil!"},
	{msgBadCredentials, "Username atau password salah."},
	{msgUsernameTaken, "Username sudah digunakan."},
	{msgRegistered, "Akun berhasil dibuat! Silakan login."},
	{msgLoggedOut, "Anda telah logout."},
	{msgHistoryDeleted, "History prediksi berhasil dihapus."},
	{msgCheckCredentials, "Periksa kembali username dan password."},
	{msgInvalidInput, "Terjadi kesalahan pada input."},
	{msgFieldRequired, "Terjadi kesalahan pada input: %s wajib diisi"},
	{msgFieldNotNumber, "Terjadi kesalahan pada input: %s harus berupa angka"},
	{msgInternal, "Terjadi kesalahan. Silakan coba lagi."},
	{msgPrediction, "Prediksi Tingkat Keparahan Anak: %d"},
	{msgReferral, "Disarankan membawa anak anda pada specialist."},

	{"Severity prediction", "Prediksi Tingkat Keparahan"},
	{"Predict", "Prediksi"},
	{"History", "Riwayat"},
	{"Logout", "Logout"},
	{"Login", "Login"},
	{"Register", "Daftar"},
	{"Username", "Username"},
	{"Password", "Password"},
	{"Delete history", "Hapus history"},
	{"No predictions yet.", "Belum ada prediksi."},
	{"No.", "No."},
	{"Time", "Waktu"},
	{"Result", "Hasil"},
	{"Already have an account?", "Sudah punya akun?"},
	{"No account yet?", "Belum punya akun?"},
	{"Category codes", "Kode kategori"},
	{"Hello, %s", "Halo, %s"},
}

var (
	supportedLanguages = []language.Tag{language.Indonesian, language.English}
	languageMatcher    = language.NewMatcher(supportedLanguages)
	messages           = newCatalog()
	knownKeys          = make(map[string]bool, len(translations))
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Indonesian))
	for _, t := range translations {
		if err := b.SetString(language.Indonesian, t.key, t.id); err != nil {
			panic(err)
		}
		if err := b.SetString(language.English, t.key, t.key); err != nil {
			panic(err)
		}
		knownKeys[t.key] = true
	}
	return b
}

// printerFor picks the language from an Accept-Language header value.
func printerFor(acceptLanguage string) (*message.Printer, language.Tag) {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, i, _ := languageMatcher.Match(tags...)
	tag := supportedLanguages[i]
	return message.NewPrinter(tag, message.Catalog(messages)), tag
}
