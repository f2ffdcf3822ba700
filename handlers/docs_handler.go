package handlers

import (
	"html/template"
	"log"
	"net/http"
	"os"
)

type DocHandler struct{}

func NewDocHandler() *DocHandler {
	return &DocHandler{}
}

// ServePrivacyPolicy returns the HTML page linked from the app stores.
func (h *DocHandler) ServePrivacyPolicy(w http.ResponseWriter, r *http.Request) {
	const privacyHtml = `
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Privacy Policy - MindQuest</title>
		<style>
			body {
				font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif;
				line-height: 1.6;
				color: #333;
				max-width: 800px;
				margin: 0 auto;
				padding: 20px;
				background-color: #f9f9f9;
			}
			.container {
				background-color: #fff;
				padding: 40px;
				border-radius: 8px;
				box-shadow: 0 2px 4px rgba(0,0,0,0.1);
			}
			h1 { color: #2c3e50; border-bottom: 2px solid #eee; padding-bottom: 10px; }
			h2 { color: #34495e; margin-top: 30px; }
			ul { margin-bottom: 20px; }
			li { margin-bottom: 8px; }
			.date { color: #7f8c8d; font-style: italic; margin-bottom: 20px; }
			.contact { background-color: #e8f4f8; padding: 15px; border-radius: 5px; margin-top: 30px; }
			a { color: #3498db; }
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Privacy Policy</h1>
			<div class="date">Last updated: August 12, 2026</div>

			<p>Welcome to MindQuest (“we”, “our”, or “us”). This Privacy Policy explains how we collect, use, and protect your information when you use our app.</p>
			<p>By using MindQuest, you agree to the terms of this Privacy Policy.</p>

			<h2>1. Information We Collect</h2>
			<p>We collect some personal and usage information to help make the app work better for you.</p>

			<h3>a. Personal Information (via sign-in)</h3>
			<p>When you create an account, we receive:</p>
			<ul>
				<li>Your first name and last name</li>
				<li>Your email address</li>
				<li>Your username and profile picture</li>
			</ul>

			<h3>b. Activity Data</h3>
			<p>To power streaks, levels and leaderboards we store:</p>
			<ul>
				<li>Which daily challenges and exercises you complete, and when</li>
				<li>Experience points, streaks and game scores</li>
			</ul>
			<p><strong>We do not collect or access your photos, contacts, camera, microphone, or location. Your written reflections stay on your device.</strong></p>

			<h2>2. How We Use Your Information</h2>
			<p>We use the information we collect to:</p>
			<ul>
				<li>Help you sign in and manage your account</li>
				<li>Track your progress, streaks and levels</li>
				<li>Show leaderboards to you and other users</li>
				<li>Send you optional progress notifications</li>
				<li>Maintain the security and reliability of our services</li>
			</ul>

			<h2>3. Sharing Your Information</h2>
			<p>We only share data with:</p>
			<ul>
				<li>Authentication providers, to help you log in</li>
				<li>Database and push notification services used to run the app</li>
			</ul>
			<p>We do not sell your personal data to anyone. MindQuest is not a medical service and we never share your activity with health providers or insurers.</p>

			<h2>4. Data Storage and Security</h2>
			<p>Your data is stored on our secure database servers. We use encryption and secure services to help protect your information from unauthorized access.</p>
			<p>We keep your data indefinitely unless you request deletion.</p>

			<h2>5. Your Rights</h2>
			<p>You have the right to:</p>
			<ul>
				<li>Request access to the information we have about you</li>
				<li>Ask us to delete your account and related data</li>
			</ul>
			<p>To make any requests, contact us at: <a href="mailto:support@mindquest.app">support@mindquest.app</a></p>

			<h2>6. Children’s Privacy</h2>
			<p>MindQuest is not directed to children under 13. We do not knowingly collect information from children.</p>

			<h2>7. Changes to This Policy</h2>
			<p>We may update this Privacy Policy from time to time. If we make major changes, we’ll let you know by updating the date at the top of this page.</p>

			<h2>8. Contact Us</h2>
			<div class="contact">
				<p>If you have any questions or concerns about this Privacy Policy, contact us at:<br>
				<strong><a href="mailto:support@mindquest.app">support@mindquest.app</a></strong></p>
			</div>
		</div>
	</body>
	</html>
	`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tmpl, err := template.New("privacy").Parse(privacyHtml)
	if err != nil {
		http.Error(w, "Could not load privacy policy", http.StatusInternalServerError)
		return
	}

	tmpl.Execute(w, nil)
}

// ServeTermsOfServices returns the HTML page for the terms of use.
func (h *DocHandler) ServeTermsOfServices(w http.ResponseWriter, r *http.Request) {
	const termsHtml = `
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Terms of Service - MindQuest</title>
		<style>
			body {
				font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif;
				line-height: 1.6;
				color: #333;
				max-width: 800px;
				margin: 0 auto;
				padding: 20px;
				background-color: #f9f9f9;
			}
			.container {
				background-color: #fff;
				padding: 40px;
				border-radius: 8px;
				box-shadow: 0 2px 4px rgba(0,0,0,0.1);
			}
			h1 { color: #2c3e50; border-bottom: 2px solid #eee; padding-bottom: 10px; }
			h2 { color: #34495e; margin-top: 30px; }
			ul { margin-bottom: 20px; }
			li { margin-bottom: 8px; }
			.date { color: #7f8c8d; font-style: italic; margin-bottom: 20px; }
			.contact { background-color: #e8f4f8; padding: 15px; border-radius: 5px; margin-top: 30px; }
			a { color: #3498db; }
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Terms of Service</h1>
			<div class="date">Last updated: August 12, 2026</div>

			<p>Welcome to MindQuest (“we”, “our”, or “us”). By using our app, you agree to these Terms of Service. Please read them carefully.</p>

			<h2>1. Not Medical Advice</h2>
			<p>MindQuest offers educational exercises about mental wellbeing. It is not therapy, diagnosis or treatment, and it is not a substitute for professional care. If you are in crisis, contact local emergency services.</p>

			<h2>2. Eligibility</h2>
			<p>You must be 13 years or older to use MindQuest. By using the app, you represent that you meet this age requirement.</p>

			<h2>3. Accounts</h2>
			<p>To track progress across devices, you need to sign in.</p>
			<ul>
				<li>You are responsible for maintaining the security of your account.</li>
				<li>Your username, level and streak may appear on public leaderboards.</li>
			</ul>
			<p>We may suspend or terminate accounts that violate these Terms.</p>

			<h2>4. User Conduct</h2>
			<p>While using MindQuest, you agree to:</p>
			<ul>
				<li>Complete exercises honestly (no cheating the leaderboard)</li>
				<li>Respect other users’ privacy and experiences</li>
				<li>Avoid any actions that could harm the app or other users</li>
			</ul>
			<p>We reserve the right to remove content or restrict accounts that violate these rules.</p>

			<h2>5. Content and Intellectual Property</h2>
			<ul>
				<li>MindQuest and its content (including designs, logos, and exercise material) are protected by copyright and belong to us.</li>
				<li>You may share app content externally, such as screenshots or stats, as long as it doesn’t violate these Terms or other users’ privacy.</li>
			</ul>

			<h2>6. Disclaimer and Limitation of Liability</h2>
			<ul>
				<li>MindQuest is provided “as-is”. Errors, downtime, or data losses may occur.</li>
				<li>You agree to use the app at your own risk.</li>
				<li>We are not responsible for decisions you make based on exercise content.</li>
			</ul>

			<h2>7. Modifications</h2>
			<p>We may update or change these Terms of Service at any time. Major changes will be indicated by updating the date at the top. Continued use of the app after changes means you accept the new Terms.</p>

			<h2>8. Contact Us</h2>
			<div class="contact">
				<p>If you have questions about these Terms, contact us at:<br>
				<strong><a href="mailto:support@mindquest.app">support@mindquest.app</a></strong></p>
			</div>
		</div>
	</body>
	</html>
	`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tmpl, err := template.New("terms").Parse(termsHtml)
	if err != nil {
		http.Error(w, "Could not load terms of service", http.StatusInternalServerError)
		return
	}

	tmpl.Execute(w, nil)
}

func (h *DocHandler) GetAppMinVersion(w http.ResponseWriter, r *http.Request) {
	appAndroidMinVersion := os.Getenv("ANDROID_MIN_VERSION")
	appIOSMinVersion := os.Getenv("IOS_MIN_VERSION")
	if appAndroidMinVersion == "" || appIOSMinVersion == "" {
		log.Println("Docs: min version environment variables are not set")
		respondWithError(w, http.StatusInternalServerError, "Minimum versions are not configured")
		return
	}

	type MinVersion struct {
		MinAndroidVersion string `json:"min_android_version_code"`
		MinIOSVersion     string `json:"min_ios_version_code"`
		UpdateMessage     string `json:"update_message"`
	}

	minVers := &MinVersion{
		MinAndroidVersion: appAndroidMinVersion,
		MinIOSVersion:     appIOSMinVersion,
		UpdateMessage:     "An important update is available! Please update to continue using the app. This update includes critical server compatibility changes",
	}

	respondWithJSON(w, http.StatusOK, minVers)
}
