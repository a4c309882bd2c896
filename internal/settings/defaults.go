package settings

import "github.com/marianozunino/uploadpro/internal/model"

const defaultRobotsTxt = `# توجيه عناكب البحث للسماح بفهرسة المحتوى العام
User-agent: *

# منع فهرسة الصفحات الخاصة أو غير المهمة
Disallow: /go/adminDashboard
Disallow: /go/profile
Disallow: /go/paymentHistory
Disallow: /login

# السماح بباقي المحتوى
Allow: /

# هام: يتم استبدال [YOUR_SITE_URL] بعنوان موقعك الفعلي عند العرض
Sitemap: [YOUR_SITE_URL]/sitemap.xml`

const defaultSitemapXML = `<?xml version="1.0" encoding="UTF-8"?>
<!-- هام: يتم استبدال كل [YOUR_SITE_URL] بعنوان موقعك الفعلي عند العرض -->
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
    <url>
        <loc>[YOUR_SITE_URL]/</loc>
        <changefreq>weekly</changefreq>
        <priority>1.0</priority>
    </url>
    <url>
        <loc>[YOUR_SITE_URL]/go/plans</loc>
        <changefreq>monthly</changefreq>
        <priority>0.8</priority>
    </url>
    <url>
        <loc>[YOUR_SITE_URL]/go/about</loc>
        <changefreq>monthly</changefreq>
        <priority>0.7</priority>
    </url>
    <url>
        <loc>[YOUR_SITE_URL]/go/contact</loc>
        <changefreq>monthly</changefreq>
        <priority>0.7</priority>
    </url>
    <url>
        <loc>[YOUR_SITE_URL]/go/privacy</loc>
        <changefreq>yearly</changefreq>
        <priority>0.5</priority>
    </url>
</urlset>`

// SiteURLPlaceholder is replaced with the public base URL when robots.txt and
// sitemap.xml are served
const SiteURLPlaceholder = "[YOUR_SITE_URL]"

// DefaultSettings returns the built-in site settings. Every call returns fresh slices.
func DefaultSettings() model.SiteSettings {
	return model.SiteSettings{
		SiteTitle:         "File Uploader Pro",
		SiteDescription:   "A professional file sharing platform with a modern drag-and-drop uploader, user profiles, download pages with countdowns, and simulated ad monetization.",
		SiteKeywords:      []string{"file sharing", "upload", "download", "storage", "cloud"},
		CountdownDuration: 10,
		PreDownloadDelay:  5,
		MaxFileSize:       100,
		DownloadPageBackground: model.Background{
			Type:  model.BackgroundColor,
			Value: "#111827",
		},
		RobotsTxtContent:     defaultRobotsTxt,
		SitemapXMLContent:    defaultSitemapXML,
		EnableStructuredData: true,
	}
}

const (
	AdDownloadTop    = "download-page-top"
	AdDownloadMiddle = "download-page-middle"
	AdDownloadBottom = "download-page-bottom"
	AdPreDownload    = "pre-download-page"
	AdProfileSidebar = "profile-page-sidebar"
)

func DefaultAds() []model.AdConfig {
	return []model.AdConfig{
		{ID: AdDownloadTop, Width: "100%", Height: "96px"},
		{ID: AdDownloadMiddle, Width: "100%", Height: "250px"},
		{ID: AdDownloadBottom, Width: "100%", Height: "90px"},
		{ID: AdPreDownload, Width: "100%", Height: "250px"},
		{ID: AdProfileSidebar, Width: "100%", Height: "256px"},
	}
}

const defaultAbout = `<h1>مرحباً بك في موقعنا</h1><p>هذه هي صفحة "من نحن". قم بتعديل هذا المحتوى من لوحة تحكم المدير.</p>`

const defaultPrivacy = `<h1>سياسة الخصوصية</h1>
<p>خصوصيتك مهمة جدًا بالنسبة لنا. تهدف سياسة الخصوصية هذه إلى توضيح كيفية جمع واستخدام وحماية المعلومات التي تقدمها عند استخدامك لموقعنا.</p>
<h2>جمع المعلومات</h2>
<p>قد نقوم بجمع معلومات غير شخصية مثل عنوان IP، نوع المتصفح، ومزود خدمة الإنترنت لأغراض التحليل وتحسين الخدمة. لا نقوم بجمع معلومات شخصية تعريفية إلا إذا قمت بتقديمها طواعية (على سبيل المثال، عبر نموذج الاتصال).</p>
<h2>ملفات تعريف الارتباط (Cookies)</h2>
<p>يستخدم موقعنا ملفات تعريف الارتباط لتحسين تجربة المستخدم. ملفات تعريف الارتباط هي ملفات نصية صغيرة يتم تخزينها على جهازك.</p>
<ul>
    <li>نستخدم ملفات تعريف الارتباط الأساسية لضمان عمل الموقع بشكل صحيح.</li>
    <li>قد يستخدم موردو الجهات الخارجية، بما في ذلك Google، ملفات تعريف ارتباط لعرض الإعلانات بناءً على زيارات المستخدم السابقة لموقعنا أو لمواقع أخرى على الويب.</li>
    <li>يمكن لزوارنا إلغاء الاشتراك في الإعلانات المخصصة عن طريق زيارة <a href="https://www.google.com/settings/ads" target="_blank" rel="noopener noreferrer">إعدادات الإعلانات</a>.</li>
</ul>
<h2>استخدام المعلومات</h2>
<p>تُستخدم المعلومات التي نجمعها لتحسين خدماتنا، وتخصيص تجربتك، وعرض الإعلانات ذات الصلة. نحن لا نبيع أو نؤجر أو نشارك معلوماتك الشخصية مع أطراف ثالثة دون موافقتك، إلا كما يقتضي القانون.</p>
<h2>روابط الطرف الثالث</h2>
<p>قد يحتوي موقعنا على روابط لمواقع أخرى. نحن لسنا مسؤولين عن ممارسات الخصوصية أو محتوى تلك المواقع. نشجعك على قراءة سياسات الخصوصية الخاصة بهم.</p>
<h2>التغييرات على سياسة الخصوصية</h2>
<p>نحتفظ بالحق في تعديل سياسة الخصوصية هذه في أي وقت. سيتم نشر أي تغييرات على هذه الصفحة.</p>
<h2>اتصل بنا</h2>
<p>إذا كان لديك أي أسئلة حول سياسة الخصوصية هذه، يمكنك الاتصال بنا عبر المعلومات المتوفرة في صفحة "اتصل بنا".</p>`

func DefaultPages() model.PageContent {
	return model.PageContent{
		About:   defaultAbout,
		Privacy: defaultPrivacy,
		Contact: model.ContactPageContent{
			Title:    "تواصل معنا",
			Subtitle: "لديك سؤال أو اقتراح؟ يسعدنا أن نسمع منك. املأ النموذج أدناه أو استخدم معلومات الاتصال المباشرة.",
			Address:  "123 شارع المثال، مدينة الرياض، المملكة العربية السعودية",
			Email:    "contact@example.com",
			Phone:    "(+966) 11 234 5678",
		},
	}
}

func DefaultSubscriptions() model.SubscriptionSettings {
	return model.SubscriptionSettings{
		Plans: []model.Plan{
			{
				ID:          model.PlanFree,
				Name:        "مجاني",
				Price:       "$0",
				Description: "للبدء والمشاريع الشخصية.",
				Features: []string{
					"1 جيجابايت مساحة تخزين",
					"100 تحميل شهرياً",
					"تحليلات أساسية",
					"دعم عبر البريد الإلكتروني",
				},
				Enabled: true,
			},
			{
				ID:          model.PlanPro,
				Name:        "احترافي",
				Price:       "$15",
				Description: "للمحترفين والفرق الصغيرة.",
				Features: []string{
					"50 جيجابايت مساحة تخزين",
					"تحميلات غير محدودة",
					"تحليلات متقدمة",
					"دعم ذو أولوية",
					"لا توجد إعلانات",
				},
				IsPopular: true,
				Enabled:   true,
			},
			{
				ID:          model.PlanEnterprise,
				Name:        "شركات",
				Price:       "$50",
				Description: "للشركات الكبيرة والمؤسسات.",
				Features: []string{
					"500 جيجابايت مساحة تخزين",
					"تحميلات غير محدودة",
					"أدوات تعاون الفريق",
					"دعم مخصص 24/7",
					"تحكم متقدم بالأمان",
				},
				Enabled: true,
			},
		},
		PaymentGateways: []model.PaymentGateway{
			{ID: model.GatewayCard, Name: "Credit/Debit Card", Enabled: true},
			{ID: model.GatewayPayPal, Name: "PayPal", Enabled: true},
			{ID: model.GatewayApplePay, Name: "Apple Pay", Enabled: true},
		},
	}
}

// Defaults returns the complete built-in state
func Defaults() model.AppState {
	return model.AppState{
		Settings:      DefaultSettings(),
		Ads:           DefaultAds(),
		Pages:         DefaultPages(),
		Subscriptions: DefaultSubscriptions(),
	}
}
