package locale

import "github.com/FACorreiaa/bharat-guide/internal/types"

const (
	KeyExplore         = "explore"
	KeyGuide           = "guide"
	KeyLocating        = "locating"
	KeyNearby          = "nearby"
	KeyLoadingGems     = "loading_gems"
	KeyChatPlaceholder = "chat_placeholder"
	KeyWelcomeChat     = "welcome_chat"
)

var phrases = map[types.Language]map[string]string{
	types.LanguageEnglish: {
		KeyExplore:         "Explore",
		KeyGuide:           "Ask Arjun",
		KeyLocating:        "Locating you...",
		KeyNearby:          "Hidden Gems Nearby",
		KeyLoadingGems:     "Arjun is discovering local gems...",
		KeyChatPlaceholder: "Ask about history, food, or travel tips...",
		KeyWelcomeChat:     "Namaste! I am Arjun, your historian guide. Click anywhere on the map or ask me anything about India!",
	},
	types.LanguageHindi: {
		KeyExplore:         "अन्वेषण करें",
		KeyGuide:           "अर्जुन से पूछें",
		KeyLocating:        "आपको ढूँढ रहा हूँ...",
		KeyNearby:          "आस-पास के छिपे हुए रत्न",
		KeyLoadingGems:     "अर्जुन स्थानीय रत्नों की खोज कर रहा है...",
		KeyChatPlaceholder: "इतिहास, भोजन या यात्रा के सुझावों के बारे में पूछें...",
		KeyWelcomeChat:     "नमस्ते! मैं अर्जुन, आपका इतिहासकार गाइड हूँ। मानचित्र पर कहीं भी क्लिक करें या मुझसे भारत के बारे में कुछ भी पूछें!",
	},
	types.LanguageMarathi: {
		KeyExplore:         "अन्वेषण करा",
		KeyGuide:           "अर्जुनला विचारा",
		KeyLocating:        "शोधत आहे...",
		KeyNearby:          "जवळपासची लपलेली रत्ने",
		KeyLoadingGems:     "अर्जुन स्थानिक रत्ने शोधत आहे...",
		KeyChatPlaceholder: "इतिहास, खाद्यपदार्थ किंवा प्रवास टिप्सबद्दल विचारा...",
		KeyWelcomeChat:     "नमस्कार! मी अर्जुन, तुमचा इतिहासकार मार्गदर्शक. नकाशावर कुठेही क्लिक करा किंवा मला भारताविषयी काहीही विचारा!",
	},
	types.LanguageBengali: {
		KeyExplore:         "অন্বেষণ করুন",
		KeyGuide:           "অর্জুনকে জিজ্ঞাসা করুন",
		KeyLocating:        "আপনাকে খুঁজছি...",
		KeyNearby:          "কাছাকাছি লুকানো রত্ন",
		KeyLoadingGems:     "অর্জুন স্থানীয় রত্ন খুঁজছেন...",
		KeyChatPlaceholder: "ইতিহাস, খাবার বা ভ্রমণ টিপস সম্পর্কে জিজ্ঞাসা করুন...",
		KeyWelcomeChat:     "নমস্কার! আমি অর্জুন, আপনার ঐতিহাসিক গাইড। মানচিত্রে যে কোনও জায়গায় ক্লিক করুন বা ভারত সম্পর্কে আমাকে কিছু জিজ্ঞাসা করুন!",
	},
	types.LanguageTamil: {
		KeyExplore:         "ஆராயுங்கள்",
		KeyGuide:           "அர்ஜுனைக் கேளுங்கள்",
		KeyLocating:        "கண்டறிகிறது...",
		KeyNearby:          "அருகிலுள்ள மறைந்திருக்கும் பொக்கிஷங்கள்",
		KeyLoadingGems:     "அர்ஜுன் உள்ளூர் பொக்கிஷங்களைக் கண்டறிகிறார்...",
		KeyChatPlaceholder: "வரலாறு, உணவு அல்லது பயண குறிப்புகள் பற்றி கேளுங்கள்...",
		KeyWelcomeChat:     "வணக்கம்! நான் அர்ஜுன், உங்கள் வரலாற்று வழிகாட்டி. வரைபடத்தில் எங்கும் கிளிக் செய்யவும் அல்லது என்னிடம் இந்தியாவைப் பற்றி எதையும் கேட்கவும்!",
	},
	types.LanguageTelugu: {
		KeyExplore:         "అన్వేషించండి",
		KeyGuide:           "అర్జున్‌ని అడగండి",
		KeyLocating:        "గుర్తిస్తోంది...",
		KeyNearby:          "దగ్గరలోని దాచిన రత్నాలు",
		KeyLoadingGems:     "అర్జున్ స్థానిక రత్నాలను కనుగొంటున్నాడు...",
		KeyChatPlaceholder: "చరిత్ర, ఆహారం లేదా ప్రయాణ చిట్కాల గురించి అడగండి...",
		KeyWelcomeChat:     "నమస్కారం! నేను అర్జున్, మీ చరిత్రకారుడు గైడ్. మ్యాప్‌లో ఎక్కడైనా క్లిక్ చేయండి లేదా భారతదేశం గురించి నన్ను ఏమైనా అడగండి!",
	},
}
